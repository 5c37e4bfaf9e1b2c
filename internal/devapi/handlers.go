package devapi

import (
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/salonhub/salon-admin/internal/domain/model"
)

type userBody struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Role           string `json:"role"`
	ApprovalStatus string `json:"approval_status,omitempty"`
}

func toUserBody(u *user) userBody {
	return userBody{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role, ApprovalStatus: u.ApprovalStatus}
}

type authBody struct {
	Token string   `json:"token"`
	User  userBody `json:"user"`
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decode(w, r, &in) {
		return
	}

	s.store.mu.RLock()
	var found user
	u := s.store.userByEmail(in.Email)
	if u != nil {
		found = *u
	}
	s.store.mu.RUnlock()

	hash := found.PasswordHash
	if u == nil || bcrypt.CompareHashAndPassword(hash, []byte(in.Password)) != nil {
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	token, err := s.tokens.issue(&found)
	if err != nil {
		s.logger.ErrorContext(r.Context(), "issue token", "error", err)
		writeMessage(w, http.StatusInternalServerError, "Could not sign in")
		return
	}
	writeJSON(w, http.StatusOK, authBody{Token: token, User: toUserBody(&found)})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Name      string `json:"name"`
		Email     string `json:"email"`
		Password  string `json:"password"`
		Role      string `json:"role"`
		SalonName string `json:"salon_name"`
	}
	if !decode(w, r, &in) {
		return
	}
	in.Email = strings.TrimSpace(in.Email)
	switch {
	case strings.TrimSpace(in.Name) == "":
		writeFieldError(w, http.StatusUnprocessableEntity, "name", "Name is required")
		return
	case !validEmail(in.Email):
		writeFieldError(w, http.StatusUnprocessableEntity, "email", "Email is invalid")
		return
	case len(in.Password) < 8:
		writeFieldError(w, http.StatusUnprocessableEntity, "password", "Password is too short")
		return
	case in.Role != "customer" && in.Role != "owner":
		writeFieldError(w, http.StatusUnprocessableEntity, "role", "Role must be customer or owner")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Could not register")
		return
	}

	s.store.mu.Lock()
	if s.store.userByEmail(in.Email) != nil {
		s.store.mu.Unlock()
		writeFieldError(w, http.StatusConflict, "email", "Email already registered")
		return
	}
	now := s.now()
	u := &user{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(in.Name),
		Email:        in.Email,
		Role:         in.Role,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if u.Role == "owner" {
		u.ApprovalStatus = "pending"
		sl := &salon{
			ID:        uuid.NewString(),
			Name:      strings.TrimSpace(in.SalonName),
			OwnerID:   u.ID,
			OwnerName: u.Name,
			Status:    "pending",
			Services:  menu[:3],
			CreatedAt: ts(now),
		}
		s.store.salons = append(s.store.salons, sl)
		u.SalonID = sl.ID
	}
	s.store.users[u.ID] = u
	issued := *u
	s.store.mu.Unlock()

	token, err := s.tokens.issue(&issued)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "Could not sign in")
		return
	}
	writeJSON(w, http.StatusCreated, authBody{Token: token, User: toUserBody(&issued)})
}

func validEmail(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}

func (s *Server) me(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	s.store.mu.RLock()
	body := toUserBody(s.store.users[p.ID])
	s.store.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": body})
}

// visibleSalon reports whether p may see records of salonID.
func visibleSalon(p principal, salonID string) bool {
	return p.Role == "admin" || salonID == p.SalonID
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	s.store.mu.RLock()
	out := filter(s.store.customers, func(c *customer) bool { return visibleSalon(p, c.SalonID) })
	s.store.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": out, "total": len(out)})
}

// listSalons is served as a bare array.
func (s *Server) listSalons(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	s.store.mu.RLock()
	out := filter(s.store.salons, func(sl *salon) bool {
		switch p.Role {
		case "admin":
			return true
		case "owner":
			return sl.ID == p.SalonID
		default:
			return sl.Status == "active"
		}
	})
	s.store.mu.RUnlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) listAppointments(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	q := r.URL.Query()
	var day time.Time
	if d := q.Get("date"); d != "" {
		parsed, err := time.Parse(time.DateOnly, d)
		if err != nil {
			writeFieldError(w, http.StatusBadRequest, "date", "date must be YYYY-MM-DD")
			return
		}
		day = parsed
	}
	salonID := q.Get("salon_id")

	s.store.mu.RLock()
	out := filter(s.store.appointments, func(a *appointment) bool {
		if !visibleSalon(p, a.SalonID) {
			return false
		}
		if salonID != "" && a.SalonID != salonID {
			return false
		}
		if !day.IsZero() {
			y1, m1, d1 := a.startsAt.UTC().Date()
			y2, m2, d2 := day.Date()
			return y1 == y2 && m1 == m2 && d1 == d2
		}
		return true
	})
	s.store.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"items": out, "count": len(out)}})
}

func (s *Server) listMyAppointments(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	s.store.mu.RLock()
	out := filter(s.store.appointments, func(a *appointment) bool { return a.CustomerID == p.ID })
	s.store.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) createAppointment(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	var in struct {
		SalonID  string `json:"salon_id"`
		Service  string `json:"service"`
		StartsAt string `json:"starts_at"`
		Notes    string `json:"notes"`
	}
	if !decode(w, r, &in) {
		return
	}
	at, err := time.Parse(time.RFC3339, in.StartsAt)
	if err != nil {
		writeFieldError(w, http.StatusUnprocessableEntity, "starts_at", "Choose a valid date and time")
		return
	}
	if !at.After(s.now()) {
		writeFieldError(w, http.StatusUnprocessableEntity, "starts_at", "Appointments must be in the future")
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	sl := s.store.salonByID(in.SalonID)
	if sl == nil || sl.Status != "active" {
		writeFieldError(w, http.StatusUnprocessableEntity, "salon_id", "Choose an open salon")
		return
	}
	var svc *service
	for i := range sl.Services {
		if sl.Services[i].Name == in.Service {
			svc = &sl.Services[i]
		}
	}
	if svc == nil {
		writeFieldError(w, http.StatusUnprocessableEntity, "service", "That service is not offered here")
		return
	}
	if s.store.customerByID(p.ID) == nil {
		s.store.customers = append(s.store.customers, &customer{
			ID: p.ID, Name: p.Name, SalonID: sl.ID, CreatedAt: ts(s.now()),
		})
	}
	a := &appointment{
		ID:              uuid.NewString(),
		CustomerID:      p.ID,
		CustomerName:    p.Name,
		SalonID:         sl.ID,
		SalonName:       sl.Name,
		Service:         svc.Name,
		StartsAt:        ts(at),
		DurationMinutes: svc.DurationMinutes,
		Price:           svc.Price,
		Status:          "pending",
		Notes:           strings.TrimSpace(in.Notes),
		startsAt:        at,
	}
	s.store.appointments = append(s.store.appointments, a)
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) updateAppointmentStatus(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	var in struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &in) {
		return
	}

	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	a := s.store.appointmentByID(r.PathValue("id"))
	if a == nil || !visibleSalon(p, a.SalonID) {
		writeMessage(w, http.StatusNotFound, "Appointment not found")
		return
	}
	next, ok := model.ParseAppointmentStatus(in.Status)
	if !ok || !model.AppointmentStatus(a.Status).CanTransition(next) {
		writeFieldError(w, http.StatusUnprocessableEntity, "status", "Cannot move a "+a.Status+" appointment to "+in.Status)
		return
	}
	a.Status = string(next)
	if next == model.AppointmentCompleted {
		s.store.complete(a)
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listPayments(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	s.store.mu.RLock()
	out := filter(s.store.payments, func(pm *payment) bool { return visibleSalon(p, pm.SalonID) })
	s.store.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"payments": out})
}

// listPromotions is served as a bare array. Customers see live promotions only.
func (s *Server) listPromotions(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	now := ts(s.now())
	s.store.mu.RLock()
	out := filter(s.store.promotions, func(pr *promotion) bool {
		switch p.Role {
		case "admin":
			return true
		case "owner":
			return pr.SalonID == p.SalonID
		default:
			return pr.Active && (pr.EndsAt == "" || pr.EndsAt >= now)
		}
	})
	s.store.mu.RUnlock()
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) createPromotion(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	var in struct {
		Title           string  `json:"title"`
		Description     string  `json:"description"`
		Code            string  `json:"code"`
		DiscountPercent float64 `json:"discount_percent"`
		StartsAt        string  `json:"starts_at"`
		EndsAt          string  `json:"ends_at"`
	}
	if !decode(w, r, &in) {
		return
	}
	switch {
	case strings.TrimSpace(in.Title) == "":
		writeFieldError(w, http.StatusUnprocessableEntity, "title", "Title is required")
		return
	case in.DiscountPercent <= 0 || in.DiscountPercent > 100:
		writeFieldError(w, http.StatusUnprocessableEntity, "discount_percent", "Discount must be between 1 and 100")
		return
	case in.StartsAt != "" && in.EndsAt != "" && in.EndsAt < in.StartsAt:
		writeFieldError(w, http.StatusUnprocessableEntity, "ends_at", "End date must be after the start date")
		return
	}

	pr := &promotion{
		ID:              uuid.NewString(),
		SalonID:         p.SalonID,
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Code:            strings.ToUpper(strings.TrimSpace(in.Code)),
		DiscountPercent: in.DiscountPercent,
		StartsAt:        in.StartsAt,
		EndsAt:          in.EndsAt,
		Active:          true,
	}
	s.store.mu.Lock()
	s.store.promotions = append(s.store.promotions, pr)
	s.store.mu.Unlock()
	writeJSON(w, http.StatusCreated, pr)
}

func (s *Server) setPromotionActive(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	var in struct {
		Active *bool `json:"active"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.Active == nil {
		writeFieldError(w, http.StatusUnprocessableEntity, "active", "active is required")
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	pr := s.store.promotionByID(r.PathValue("id"))
	if pr == nil || pr.SalonID != p.SalonID {
		writeMessage(w, http.StatusNotFound, "Promotion not found")
		return
	}
	pr.Active = *in.Active
	writeJSON(w, http.StatusOK, pr)
}

type ownerBody struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	SalonName      string `json:"salon_name,omitempty"`
	ApprovalStatus string `json:"approval_status"`
	CreatedAt      string `json:"created_at"`
}

func (s *Server) listOwners(w http.ResponseWriter, _ *http.Request) {
	s.store.mu.RLock()
	out := make([]ownerBody, 0)
	for _, u := range s.store.users {
		if u.Role != "owner" {
			continue
		}
		ob := ownerBody{ID: u.ID, Name: u.Name, Email: u.Email, ApprovalStatus: u.ApprovalStatus, CreatedAt: ts(u.CreatedAt)}
		if sl := s.store.salonByID(u.SalonID); sl != nil {
			ob.SalonName = sl.Name
		}
		out = append(out, ob)
	}
	s.store.mu.RUnlock()
	writeJSON(w, http.StatusOK, map[string]any{"data": out})
}

func (s *Server) setOwnerApproval(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Status string `json:"status"`
	}
	if !decode(w, r, &in) {
		return
	}
	if in.Status != "approved" && in.Status != "rejected" {
		writeFieldError(w, http.StatusUnprocessableEntity, "status", "status must be approved or rejected")
		return
	}
	s.store.mu.Lock()
	defer s.store.mu.Unlock()
	u := s.store.users[r.PathValue("id")]
	if u == nil || u.Role != "owner" {
		writeMessage(w, http.StatusNotFound, "Owner not found")
		return
	}
	u.ApprovalStatus = in.Status
	if sl := s.store.salonByID(u.SalonID); sl != nil && sl.Status == "pending" && in.Status == "approved" {
		sl.Status = "active"
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loyalty(w http.ResponseWriter, r *http.Request) {
	p := principalFrom(r.Context())
	s.store.mu.RLock()
	points := 0
	if c := s.store.customerByID(p.ID); c != nil {
		points = c.LoyaltyPoints
	}
	history := append([]loyaltyEntry(nil), s.store.loyalty[p.ID]...)
	s.store.mu.RUnlock()
	// Tier is left for the client to derive.
	writeJSON(w, http.StatusOK, map[string]any{"data": map[string]any{"points": points, "history": history}})
}
