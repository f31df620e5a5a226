package httpapi

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 500

	defaultBirthdayDays = 7
	maxBirthdayDays     = 366
)

func (s *Server) handleCreateContact(w http.ResponseWriter, r *http.Request) error {
	user := CurrentUser(r.Context())

	var req ContactCreate
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	created, err := s.contacts.Create(r.Context(), req.Model(), user.ID)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusCreated, NewContactResponse(created))
	return nil
}

func (s *Server) handleListContacts(w http.ResponseWriter, r *http.Request) error {
	user := CurrentUser(r.Context())
	skip, limit, err := pagination(r)
	if err != nil {
		return err
	}

	list, err := s.contacts.List(r.Context(), user.ID, skip, limit)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, NewContactListResponse(list))
	return nil
}

func (s *Server) handleGetContact(w http.ResponseWriter, r *http.Request) error {
	user := CurrentUser(r.Context())
	id := chi.URLParam(r, "contactID")

	contact, err := s.contacts.Get(r.Context(), id, user.ID)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, NewContactResponse(contact))
	return nil
}

func (s *Server) handleUpdateContact(w http.ResponseWriter, r *http.Request) error {
	user := CurrentUser(r.Context())
	id := chi.URLParam(r, "contactID")

	var req ContactCreate
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	contact := req.Model()
	contact.ID = id
	updated, err := s.contacts.Update(r.Context(), contact, user.ID)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, NewContactResponse(updated))
	return nil
}

func (s *Server) handleDeleteContact(w http.ResponseWriter, r *http.Request) error {
	user := CurrentUser(r.Context())
	id := chi.URLParam(r, "contactID")

	if err := s.contacts.Delete(r.Context(), id, user.ID); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

func (s *Server) handleUpcomingBirthdays(w http.ResponseWriter, r *http.Request) error {
	user := CurrentUser(r.Context())
	days, err := birthdayDays(r)
	if err != nil {
		return err
	}

	list, err := s.contacts.UpcomingBirthdays(r.Context(), user.ID, days)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, NewContactListResponse(list))
	return nil
}

// --- admin ---

func (s *Server) handleListContactsAdmin(w http.ResponseWriter, r *http.Request) error {
	skip, limit, err := pagination(r)
	if err != nil {
		return err
	}

	list, err := s.contacts.ListAdmin(r.Context(), skip, limit)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, NewContactListResponse(list))
	return nil
}

func (s *Server) handleGetContactAdmin(w http.ResponseWriter, r *http.Request) error {
	id := chi.URLParam(r, "contactID")

	contact, err := s.contacts.GetAdmin(r.Context(), id)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, NewContactResponse(contact))
	return nil
}

func (s *Server) handleUpcomingBirthdaysAdmin(w http.ResponseWriter, r *http.Request) error {
	days, err := birthdayDays(r)
	if err != nil {
		return err
	}

	list, err := s.contacts.UpcomingBirthdaysAdmin(r.Context(), days)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, NewContactListResponse(list))
	return nil
}

// --- query helpers ---

func pagination(r *http.Request) (skip, limit int, err error) {
	skip, err = queryInt(r, "skip", 0, 0, 1<<30)
	if err != nil {
		return 0, 0, err
	}
	limit, err = queryInt(r, "limit", defaultPageLimit, 1, maxPageLimit)
	if err != nil {
		return 0, 0, err
	}
	return skip, limit, nil
}

func birthdayDays(r *http.Request) (int, error) {
	return queryInt(r, "days", defaultBirthdayDays, 0, maxBirthdayDays)
}

func queryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < min || v > max {
		return 0, ErrBadRequest("invalid " + name + " parameter")
	}
	return v, nil
}
