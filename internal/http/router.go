package http

import (
	"encoding/json"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"arboriza/backend/internal/config"
	"arboriza/backend/internal/domain/care"
	"arboriza/backend/internal/domain/gamification"
	"arboriza/backend/internal/domain/learn"
	"arboriza/backend/internal/domain/mapview"
	"arboriza/backend/internal/domain/profile"
	"arboriza/backend/internal/domain/tree"
	"arboriza/backend/internal/handlers"
	"arboriza/backend/internal/middleware"
	"arboriza/backend/internal/plantnet"
	"arboriza/backend/internal/utils"

	"firebase.google.com/go/v4/auth"
	"github.com/go-chi/chi/v5"
	"google.golang.org/genproto/googleapis/type/latlng"
)

type RouterDeps struct {
	Cfg             config.Config
	Logger          *slog.Logger
	AuthClient      *auth.Client
	ProfileSvc      *profile.Service
	GamificationSvc *gamification.Service
	TreeSvc         *tree.Service
	CareSvc         *care.Service
	Presenter       *mapview.Presenter
	IdentifyProxy   http.Handler
	Uploads         *handlers.Uploads
}

func NewRouter(d RouterDeps) http.Handler {
	r := chi.NewRouter()

	if d.Logger != nil {
		r.Use(middleware.Logger(d.Logger))
	}
	r.Use(middleware.CORS(d.Cfg.AllowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, 200, map[string]any{"ok": true, "ts": time.Now().UTC().Format(time.RFC3339)})
	})

	// ===== Identification proxy (no auth; it answers its own CORS) =====
	if d.IdentifyProxy != nil {
		r.Handle("/identify", d.IdentifyProxy)
	}

	// ===== Signup (no auth; it creates the account) =====
	r.Post("/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		var in profile.SignupInput
		if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
			Fail(w, 400, "invalid json")
			return
		}
		out, err := d.ProfileSvc.Signup(r.Context(), in)
		if err != nil {
			status, msg := mapProfileError(err)
			Fail(w, status, msg)
			return
		}
		WriteJSON(w, 201, out)
	})

	// Protected routes
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.WithAuth(d.AuthClient))

		pr.Get("/v1/me", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			WriteJSON(w, 200, map[string]any{
				"uid":   au.UID,
				"email": au.Email,
			})
		})

		// ===== Profile routes =====
		pr.Get("/v1/profile", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			targetUid := r.URL.Query().Get("uid")
			if targetUid == "" {
				targetUid = au.UID
			}

			out, err := d.ProfileSvc.GetProfile(r.Context(), targetUid)
			if err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Put("/v1/profile", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var in profile.UpdateProfileInput
			if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
				Fail(w, 400, "invalid json")
				return
			}
			in.Trim()

			if err := d.ProfileSvc.UpdateProfile(r.Context(), au.UID, in); err != nil {
				status, msg := mapProfileError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"success": true})
		})

		pr.Get("/v1/profile/summary", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			out, err := d.GamificationSvc.Summarize(r.Context(), au.UID)
			if err != nil {
				status, msg := mapGamificationError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/profile/adoptedTrees", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			out, err := d.TreeSvc.ListAdoptedTrees(r.Context(), au.UID)
			if err != nil {
				status, msg := mapTreeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"adoptedTrees": out})
		})

		pr.Post("/v1/profile/award", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			var body struct {
				Action string `json:"action"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Action == "" {
				Fail(w, 400, "action is required")
				return
			}

			out, err := d.GamificationSvc.Award(r.Context(), au.UID, gamification.Action(body.Action))
			if err != nil {
				status, msg := mapGamificationError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Identification =====
		pr.Post("/v1/identify/match", func(w http.ResponseWriter, r *http.Request) {
			file, header, err := r.FormFile("image")
			if err != nil {
				Fail(w, 400, "image is required")
				return
			}
			defer file.Close()
			data, err := io.ReadAll(file)
			if err != nil {
				Fail(w, 400, "failed to read image")
				return
			}

			match, err := d.CareSvc.Identify(r.Context(), plantnet.Image{
				Filename:    header.Filename,
				ContentType: header.Header.Get("Content-Type"),
				Data:        data,
			})
			if err != nil {
				status, msg := mapCareError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"plant": match})
		})

		// ===== Tree routes =====
		pr.Get("/v1/trees", func(w http.ResponseWriter, r *http.Request) {
			limit := 0
			if s := r.URL.Query().Get("limit"); s != "" {
				if n, err := strconv.Atoi(s); err == nil {
					limit = n
				}
			}
			out, err := d.TreeSvc.List(r.Context(), limit)
			if err != nil {
				status, msg := mapTreeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"trees": out})
		})

		pr.Get("/v1/trees/search", func(w http.ResponseWriter, r *http.Request) {
			q := strings.TrimSpace(r.URL.Query().Get("q"))
			limit := 0
			if s := r.URL.Query().Get("limit"); s != "" {
				if n, err := strconv.Atoi(s); err == nil {
					limit = n
				}
			}
			out, err := d.TreeSvc.Search(r.Context(), q, limit)
			if err != nil {
				status, msg := mapTreeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"trees": out})
		})

		pr.Post("/v1/trees", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())

			in, err := parseRegisterRequest(r)
			if err != nil {
				Fail(w, 400, "invalid request body")
				return
			}

			out, err := d.CareSvc.Register(r.Context(), au.UID, in)
			if err != nil {
				status, msg := mapCareError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/trees/{treeId}", func(w http.ResponseWriter, r *http.Request) {
			treeId := chi.URLParam(r, "treeId")
			out, err := d.TreeSvc.Get(r.Context(), treeId)
			if err != nil {
				status, msg := mapTreeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		pr.Get("/v1/trees/{treeId}/careEvents", func(w http.ResponseWriter, r *http.Request) {
			treeId := chi.URLParam(r, "treeId")
			limit := 0
			if s := r.URL.Query().Get("limit"); s != "" {
				if n, err := strconv.Atoi(s); err == nil {
					limit = n
				}
			}
			out, err := d.TreeSvc.ListCareEvents(r.Context(), treeId, limit)
			if err != nil {
				status, msg := mapTreeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"careEvents": out})
		})

		pr.Post("/v1/trees/{treeId}/careEvents", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			treeId := chi.URLParam(r, "treeId")

			in, err := parseCareRequest(r)
			if err != nil {
				Fail(w, 400, "invalid request body")
				return
			}

			out, err := d.CareSvc.Care(r.Context(), au.UID, treeId, in)
			if err != nil {
				status, msg := mapCareError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Post("/v1/trees/{treeId}/comments", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			treeId := chi.URLParam(r, "treeId")

			var body struct {
				Message string `json:"message"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				Fail(w, 400, "invalid json")
				return
			}

			out, err := d.CareSvc.Comment(r.Context(), au.UID, treeId, body.Message)
			if err != nil {
				status, msg := mapCareError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 201, out)
		})

		pr.Get("/v1/trees/{treeId}/adopters", func(w http.ResponseWriter, r *http.Request) {
			treeId := chi.URLParam(r, "treeId")
			out, err := d.TreeSvc.ListAdopters(r.Context(), treeId)
			if err != nil {
				status, msg := mapTreeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"adopters": out})
		})

		pr.Post("/v1/trees/{treeId}/adoption/toggle", func(w http.ResponseWriter, r *http.Request) {
			au, _ := middleware.GetAuthUser(r.Context())
			treeId := chi.URLParam(r, "treeId")

			out, err := d.CareSvc.ToggleAdoption(r.Context(), au.UID, treeId)
			if err != nil {
				status, msg := mapCareError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, out)
		})

		// ===== Map routes =====
		if d.Presenter != nil {
			pr.Get("/v1/markers", func(w http.ResponseWriter, r *http.Request) {
				center := d.Presenter.Center()
				WriteJSON(w, 200, map[string]any{
					"markers": d.Presenter.Markers(),
					"center":  map[string]float64{"latitude": center.Latitude, "longitude": center.Longitude},
				})
			})
		}

		// ===== Feed =====
		pr.Get("/v1/feed", func(w http.ResponseWriter, r *http.Request) {
			limit := 0
			if s := r.URL.Query().Get("limit"); s != "" {
				if n, err := strconv.Atoi(s); err == nil {
					limit = n
				}
			}
			var before time.Time
			if s := r.URL.Query().Get("before"); s != "" {
				t, err := utils.ParseTime(s)
				if err != nil {
					Fail(w, 400, "invalid before timestamp")
					return
				}
				before = t
			}
			out, err := d.TreeSvc.Feed(r.Context(), limit, before)
			if err != nil {
				status, msg := mapTreeError(err)
				Fail(w, status, msg)
				return
			}
			WriteJSON(w, 200, map[string]any{"feed": out})
		})

		// ===== Learn =====
		pr.Get("/v1/learn", func(w http.ResponseWriter, _ *http.Request) {
			WriteJSON(w, 200, map[string]any{"articles": learn.Articles()})
		})

		pr.Get("/v1/learn/{articleId}", func(w http.ResponseWriter, r *http.Request) {
			a, ok := learn.Get(chi.URLParam(r, "articleId"))
			if !ok {
				Fail(w, 404, "article not found")
				return
			}
			WriteJSON(w, 200, a)
		})

		// ===== Uploads =====
		if d.Uploads != nil {
			pr.Post("/v1/uploads/photo", d.Uploads.PostPhoto)
			pr.Post("/v1/uploads/avatar", d.Uploads.PostAvatar)
			pr.Post("/v1/uploads/signed-url", d.Uploads.CreateSignedUploadURL)
		}
	})

	return r
}

type registerTreeReq struct {
	Plant *struct {
		CommonName     string  `json:"commonName"`
		ScientificName string  `json:"scientificName"`
		Score          float64 `json:"score"`
	} `json:"plant"`
	Location *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"location"`
	Status   string `json:"status"`
	Address  string `json:"address"`
	Message  string `json:"message"`
	PhotoURL string `json:"photoUrl"`
}

func (b registerTreeReq) toInput() care.RegisterInput {
	in := care.RegisterInput{
		Status:   tree.HealthStatus(b.Status),
		Address:  strings.TrimSpace(b.Address),
		Message:  b.Message,
		PhotoURL: strings.TrimSpace(b.PhotoURL),
	}
	if b.Plant != nil {
		in.Plant = &plantnet.Match{
			CommonName:     strings.TrimSpace(b.Plant.CommonName),
			ScientificName: strings.TrimSpace(b.Plant.ScientificName),
			Score:          b.Plant.Score,
		}
	}
	if b.Location != nil {
		in.Location = &latlng.LatLng{Latitude: b.Location.Latitude, Longitude: b.Location.Longitude}
	}
	return in
}

const maxInlinePhoto = 10 << 20

// parseRegisterRequest accepts either a JSON body or multipart/form-data
// with an inline "photo" file, so the flow can upload in one round trip.
func parseRegisterRequest(r *http.Request) (care.RegisterInput, error) {
	if !isMultipart(r) {
		var body registerTreeReq
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return care.RegisterInput{}, err
		}
		return body.toInput(), nil
	}

	if err := r.ParseMultipartForm(maxInlinePhoto); err != nil {
		return care.RegisterInput{}, err
	}
	in := care.RegisterInput{
		Status:   tree.HealthStatus(r.FormValue("status")),
		Address:  strings.TrimSpace(r.FormValue("address")),
		Message:  r.FormValue("message"),
		PhotoURL: strings.TrimSpace(r.FormValue("photoUrl")),
		Photo:    formPhoto(r),
	}
	if sci := strings.TrimSpace(r.FormValue("scientificName")); sci != "" {
		score, _ := strconv.ParseFloat(r.FormValue("score"), 64)
		in.Plant = &plantnet.Match{
			CommonName:     strings.TrimSpace(r.FormValue("commonName")),
			ScientificName: sci,
			Score:          score,
		}
	}
	latStr, lngStr := r.FormValue("latitude"), r.FormValue("longitude")
	if latStr != "" && lngStr != "" {
		lat, latErr := strconv.ParseFloat(latStr, 64)
		lng, lngErr := strconv.ParseFloat(lngStr, 64)
		if latErr == nil && lngErr == nil {
			in.Location = &latlng.LatLng{Latitude: lat, Longitude: lng}
		}
	}
	return in, nil
}

func parseCareRequest(r *http.Request) (care.CareInput, error) {
	if !isMultipart(r) {
		var body struct {
			Message  string `json:"message"`
			PhotoURL string `json:"photoUrl"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return care.CareInput{}, err
		}
		return care.CareInput{Message: body.Message, PhotoURL: strings.TrimSpace(body.PhotoURL)}, nil
	}

	if err := r.ParseMultipartForm(maxInlinePhoto); err != nil {
		return care.CareInput{}, err
	}
	return care.CareInput{
		Message:  r.FormValue("message"),
		PhotoURL: strings.TrimSpace(r.FormValue("photoUrl")),
		Photo:    formPhoto(r),
	}, nil
}

func isMultipart(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "multipart/form-data"
}

func formPhoto(r *http.Request) *care.Photo {
	file, header, err := r.FormFile("photo")
	if err != nil {
		return nil
	}
	defer file.Close()
	data, err := io.ReadAll(io.LimitReader(file, maxInlinePhoto))
	if err != nil || len(data) == 0 {
		return nil
	}
	return &care.Photo{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}
}

func mapProfileError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case profile.IsErrUnauthorized(err):
		return 403, err.Error()
	case profile.IsErrNotFound(err):
		return 404, err.Error()
	case profile.IsErrEmailInUse(err):
		return 409, err.Error()
	case profile.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapGamificationError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case gamification.IsErrNotFound(err):
		return 404, err.Error()
	case gamification.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapTreeError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case tree.IsErrUnauthorized(err):
		return 403, err.Error()
	case tree.IsErrNotFound(err):
		return 404, err.Error()
	case tree.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}

func mapCareError(err error) (int, string) {
	if err == nil {
		return 500, "unknown error"
	}
	switch {
	case care.IsErrUncertain(err):
		return 422, "Identificação incerta. Tente uma foto mais nítida ou de outro ângulo."
	case care.IsErrNoPlant(err):
		return 400, "Nenhuma planta identificada. Use a câmera primeiro."
	case care.IsErrNoLocation(err):
		return 400, "Localização exata necessária. Tente se localizar no mapa primeiro."
	case care.IsErrNotFound(err):
		return 404, err.Error()
	case care.IsErrBadRequest(err):
		return 400, err.Error()
	default:
		return 500, err.Error()
	}
}
