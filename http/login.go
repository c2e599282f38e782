package http

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/dmcclung/zero2prod"
)

//go:embed html/*.html
var templateFS embed.FS

var pageTemplates = template.Must(template.ParseFS(templateFS, "html/*.html"))

func renderPage(w http.ResponseWriter, status int, name string, data interface{}) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	return pageTemplates.ExecuteTemplate(w, name, data)
}

func (s *Server) homeHandler(w http.ResponseWriter, r *http.Request) error {
	product := s.Product
	if product == "" {
		product = "Newsletter"
	}
	return renderPage(w, http.StatusOK, "home.html", map[string]interface{}{
		"Product": product,
	})
}

func (s *Server) loginFormHandler(w http.ResponseWriter, r *http.Request) error {
	return renderPage(w, http.StatusOK, "login.html", map[string]interface{}{})
}

func (s *Server) loginHandler(w http.ResponseWriter, r *http.Request) error {
	if err := r.ParseForm(); err != nil {
		return &zero2prod.Error{Code: zero2prod.ErrInvalid, Message: "malformed form data", Op: "http.login", Err: err}
	}

	_, err := s.CredentialValidator.Validate(r.Context(), r.FormValue("username"), r.FormValue("password"))
	if err != nil {
		if zero2prod.ErrorCode(err) == zero2prod.ErrInvalidCredentials {
			return renderPage(w, http.StatusUnauthorized, "login.html", map[string]interface{}{
				"Error": "Invalid username or password.",
			})
		}
		return err
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)

	return nil
}
