package webui

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/xcel/profile/internal/apiclient"
	"github.com/xcel/profile/internal/middleware"
	"github.com/xcel/profile/internal/observability"
	"github.com/xcel/profile/internal/profileview"
)

//go:embed templates/*.html
var templateFS embed.FS

// API is the remote side of the web front end.
type API interface {
	profileview.Client
	Login(ctx context.Context, email, password string) (string, error)
}

type Config struct {
	ServiceName  string
	ImageBaseURL string
	CookieSecure bool
}

// Server renders the profile screen. Every request builds a fresh
// profileview.View over the request's cookies.
type Server struct {
	api   API
	cfg   Config
	log   *zap.Logger
	pages map[string]*template.Template
	now   func() time.Time
}

func New(api API, cfg Config, log *zap.Logger) (*Server, error) {
	pages := map[string]*template.Template{}
	for _, name := range []string{"profile.html", "signin.html"} {
		t, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name)
		if err != nil {
			return nil, err
		}
		pages[name] = t
	}

	return &Server{api: api, cfg: cfg, log: log, pages: pages, now: time.Now}, nil
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(observability.MetricsMiddleware(s.cfg.ServiceName))
	r.Use(middleware.Recovery())

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, profileview.SignInPath, http.StatusSeeOther)
	})
	r.Get("/profile", s.showProfile)
	r.Get("/profile/edit", s.editProfile)
	r.Post("/profile", s.submitProfile)
	r.Post("/logout", s.logout)
	r.Get("/signin", s.signInForm)
	r.Post("/signin", s.signIn)
	r.Get("/health/live", observability.HealthLiveHandler)

	return otelhttp.NewHandler(r, s.cfg.ServiceName)
}

type profilePage struct {
	Title    string
	State    profileview.State
	Token    string
	ImageURL string
	Fallback string
}

type signInPage struct {
	Title string
	Email string
	Err   string
}

func (s *Server) view(w http.ResponseWriter, r *http.Request, opts ...profileview.Option) (*profileview.View, *redirect) {
	nav := &redirect{}
	opts = append([]profileview.Option{profileview.WithLogger(s.log)}, opts...)
	v := profileview.New(s.api, s.storage(w, r), nav, opts...)
	return v, nav
}

func (s *Server) storage(w http.ResponseWriter, r *http.Request) *cookieStorage {
	return &cookieStorage{r: r, w: w, secure: s.cfg.CookieSecure}
}

func (s *Server) showProfile(w http.ResponseWriter, r *http.Request) {
	v, nav := s.view(w, r)
	v.Load(r.Context(), r.URL.Query())
	s.renderProfile(w, r, v, nav, r.URL.Query().Get(profileview.TokenKey))
}

func (s *Server) editProfile(w http.ResponseWriter, r *http.Request) {
	v, nav := s.view(w, r)
	v.Load(r.Context(), r.URL.Query())
	if v.State().ShowProfile() {
		v.Edit()
	}
	s.renderProfile(w, r, v, nav, r.URL.Query().Get(profileview.TokenKey))
}

// submitProfile resumes the view with the edit form open and the submitted
// values, then sends them with the token cookie.
func (s *Server) submitProfile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	p := profileview.Profile{
		Username:     r.PostForm.Get("username"),
		Email:        r.PostForm.Get("email"),
		FirstName:    r.PostForm.Get("firstName"),
		LastName:     r.PostForm.Get("lastName"),
		Bio:          r.PostForm.Get("bio"),
		ProfileImage: r.PostForm.Get("profileImage"),
	}

	v, nav := s.view(w, r, profileview.WithState(profileview.State{Profile: p, Editing: true}))
	v.SubmitEdit(r.Context(), p)

	// Links on the rendered page carry the stored token; there is no query
	// token on a form post.
	token, _ := s.storage(w, r).GetItem(r.Context(), profileview.TokenKey)
	s.renderProfile(w, r, v, nav, token)
}

func (s *Server) logout(w http.ResponseWriter, r *http.Request) {
	v, nav := s.view(w, r)
	v.Logout(r.Context())
	http.Redirect(w, r, nav.path, http.StatusSeeOther)
}

func (s *Server) renderProfile(w http.ResponseWriter, r *http.Request, v *profileview.View, nav *redirect, token string) {
	if nav.path != "" {
		http.Redirect(w, r, nav.path, http.StatusSeeOther)
		return
	}

	st := v.State()
	page := profilePage{
		Title:    "Profile",
		State:    st,
		Token:    token,
		Fallback: profileview.FallbackImage,
	}
	if st.Profile.ProfileImage != "" {
		page.ImageURL = profileview.ImageURL(s.cfg.ImageBaseURL, st.Profile.ProfileImage, s.now())
	} else {
		page.ImageURL = profileview.FallbackImage
	}

	status := http.StatusOK
	if st.ShowError() && !st.Editing {
		status = http.StatusBadGateway
	}
	s.render(w, r, "profile.html", status, page)
}

func (s *Server) signInForm(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "signin.html", http.StatusOK, signInPage{Title: "Sign in"})
}

func (s *Server) signIn(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")

	token, err := s.api.Login(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		s.log.Info("sign in failed", zap.String("email", email), zap.Error(err))

		msg := err.Error()
		status := http.StatusBadGateway
		var se *apiclient.StatusError
		if errors.As(err, &se) {
			status = se.Code
			if se.Message != "" {
				msg = se.Message
			}
		}
		s.render(w, r, "signin.html", status, signInPage{Title: "Sign in", Email: email, Err: msg})
		return
	}

	if err := s.storage(w, r).SetItem(r.Context(), profileview.TokenKey, token); err != nil {
		s.log.Error("failed to store token", zap.Error(err))
	}
	http.Redirect(w, r, "/profile?"+url.Values{profileview.TokenKey: {token}}.Encode(), http.StatusSeeOther)
}

func (s *Server) render(w http.ResponseWriter, r *http.Request, page string, status int, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.pages[page].ExecuteTemplate(w, page, data); err != nil {
		observability.GetLogger(r.Context()).Error("template render failed", zap.String("page", page), zap.Error(err))
	}
}
