package httpapi

import (
	"net/http"
	"strings"
)

// maxAvatarSize bounds avatar uploads to 5 MiB.
const maxAvatarSize = 5 << 20

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) error {
	var req UserCreate
	if isFormRequest(r) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		req.Email = r.PostFormValue("email")
		req.Password = r.PostFormValue("password")
	} else if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	user, err := s.users.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusCreated, NewUserResponse(user))
	return nil
}

func (s *Server) handleResendVerification(w http.ResponseWriter, r *http.Request) error {
	var req EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	if err := s.users.ResendVerificationEmail(r.Context(), req.Email); err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{"message": "verification email sent if the account exists"})
	return nil
}

func (s *Server) handleVerifyEmail(w http.ResponseWriter, r *http.Request) error {
	token := r.URL.Query().Get("token")
	if token == "" {
		return ErrBadRequest("missing token")
	}

	if err := s.users.VerifyEmail(r.Context(), token); err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "email verified"})
	return nil
}

// handleLogin accepts credentials as JSON or as a classic password-grant
// form body and responds with a bearer token pair.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) error {
	var req LoginRequest
	if isFormRequest(r) {
		r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
		req.Email = r.PostFormValue("username")
		if req.Email == "" {
			req.Email = r.PostFormValue("email")
		}
		req.Password = r.PostFormValue("password")
	} else if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	pair, err := s.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, &TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
	return nil
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) error {
	var req RefreshRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	pair, err := s.users.RefreshToken(r.Context(), req.RefreshToken)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, &TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    "bearer",
	})
	return nil
}

func (s *Server) handleRequestPasswordReset(w http.ResponseWriter, r *http.Request) error {
	var req EmailRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	if err := s.users.RequestPasswordReset(r.Context(), req.Email); err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusAccepted, map[string]string{"message": "reset email sent if the account exists"})
	return nil
}

func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) error {
	var req ResetPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	if err := s.users.ResetPassword(r.Context(), req.Token, req.Password); err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, map[string]string{"message": "password updated"})
	return nil
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) error {
	user := CurrentUser(r.Context())
	RespondWithJSON(w, http.StatusOK, NewUserResponse(user))
	return nil
}

func (s *Server) handleUploadAvatar(w http.ResponseWriter, r *http.Request) error {
	user := CurrentUser(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarSize)
	if err := r.ParseMultipartForm(maxAvatarSize); err != nil {
		return ErrBadRequestWrap("avatar too large or malformed form", err)
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		return ErrBadRequestWrap("missing file field", err)
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	updated, err := s.users.UpdateAvatar(r.Context(), user.ID, contentType, file)
	if err != nil {
		return err
	}

	RespondWithJSON(w, http.StatusOK, &AvatarResponse{URL: updated.Avatar.String})
	return nil
}

func isFormRequest(r *http.Request) bool {
	ct := r.Header.Get(headerContentType)
	return strings.HasPrefix(ct, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(ct, "multipart/form-data")
}
