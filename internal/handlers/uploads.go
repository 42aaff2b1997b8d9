package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"arboriza/backend/internal/authctx"
	"arboriza/backend/internal/config"
	"arboriza/backend/internal/firebase"
	"arboriza/backend/internal/httpjson"
	"arboriza/backend/internal/utils"

	credentials "cloud.google.com/go/iam/credentials/apiv1"
	credentialspb "cloud.google.com/go/iam/credentials/apiv1/credentialspb"
	"cloud.google.com/go/storage"
)

const maxUploadBytes = 10 << 20

// ProfileMerger is the slice of the profile repo the avatar upload needs.
type ProfileMerger interface {
	Merge(ctx context.Context, uid string, fields map[string]any) error
}

type Uploads struct {
	cfg      config.Config
	clients  *firebase.Clients
	profiles ProfileMerger
	iam      *credentials.IamCredentialsClient
}

func NewUploads(cfg config.Config, clients *firebase.Clients, profiles ProfileMerger) *Uploads {
	// IAM client is optional; only needed for signed URLs.
	iamClient, _ := credentials.NewIamCredentialsClient(context.Background())
	return &Uploads{cfg: cfg, clients: clients, profiles: profiles, iam: iamClient}
}

// UploadPhoto writes a care photo under photos/ and returns its public URL.
// Object names carry a millisecond timestamp so repeated uploads of the same
// filename never collide.
func (h *Uploads) UploadPhoto(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	slug := utils.SlugifyFilename(filename)
	if slug == "" {
		slug = "upload.jpg"
	}
	object := fmt.Sprintf("photos/%d_%s", time.Now().UnixMilli(), slug)
	return h.write(ctx, object, contentType, data)
}

// UploadAvatar overwrites the user's single avatar object and records the
// new URL on the profile.
func (h *Uploads) UploadAvatar(ctx context.Context, uid, contentType string, data []byte) (string, error) {
	object := fmt.Sprintf("user-avatars/%s/avatar.jpg", uid)
	url, err := h.write(ctx, object, contentType, data)
	if err != nil {
		return "", err
	}
	err = h.profiles.Merge(ctx, uid, map[string]any{
		"photoURL":  url,
		"updatedAt": time.Now().UTC(),
	})
	if err != nil {
		return "", err
	}
	return url, nil
}

func (h *Uploads) write(ctx context.Context, object, contentType string, data []byte) (string, error) {
	if h.cfg.StorageBucket == "" {
		return "", fmt.Errorf("FIREBASE_STORAGE_BUCKET is not set")
	}
	wr := h.clients.Storage.Bucket(h.cfg.StorageBucket).Object(object).NewWriter(ctx)
	if contentType != "" {
		wr.ContentType = contentType
	}
	if _, err := wr.Write(data); err != nil {
		_ = wr.Close()
		return "", err
	}
	if err := wr.Close(); err != nil {
		return "", err
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", h.cfg.StorageBucket, object), nil
}

// PostPhoto handles a direct multipart photo upload from the care flow.
func (h *Uploads) PostPhoto(w http.ResponseWriter, r *http.Request) {
	filename, contentType, data, err := readUpload(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	url, err := h.UploadPhoto(r.Context(), filename, contentType, data)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}
	httpjson.Write(w, http.StatusCreated, map[string]string{"url": url})
}

// PostAvatar handles a multipart avatar upload for the signed-in user.
func (h *Uploads) PostAvatar(w http.ResponseWriter, r *http.Request) {
	uid, ok := authctx.UID(r.Context())
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	_, contentType, data, err := readUpload(r)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	url, err := h.UploadAvatar(r.Context(), uid, contentType, data)
	if err != nil {
		httpjson.Error(w, http.StatusInternalServerError, "upload failed")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]string{"url": url})
}

func readUpload(r *http.Request) (filename, contentType string, data []byte, err error) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		return "", "", nil, fmt.Errorf("multipart/form-data esperado")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		return "", "", nil, fmt.Errorf("file is required")
	}
	defer file.Close()
	data, err = io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil || len(data) == 0 {
		return "", "", nil, fmt.Errorf("empty file")
	}
	return header.Filename, header.Header.Get("Content-Type"), data, nil
}

type signedURLReq struct {
	ObjectPath     string `json:"objectPath"` // e.g. "photos/{ts}_{name}.jpg"
	ContentType    string `json:"contentType,omitempty"`
	ExpiresSeconds int64  `json:"expiresSeconds,omitempty"` // default 900
}

type signedURLResp struct {
	URL       string `json:"url"`
	Method    string `json:"method"`
	ExpiresAt int64  `json:"expiresAt"`
}

// CreateSignedUploadURL lets the client upload straight to the bucket,
// bypassing the API for large photos.
func (h *Uploads) CreateSignedUploadURL(w http.ResponseWriter, r *http.Request) {
	var req signedURLReq
	if err := httpjson.Read(r, &req); err != nil || req.ObjectPath == "" {
		httpjson.Error(w, http.StatusBadRequest, "objectPath is required")
		return
	}
	url, exp, err := h.signedURL(r.Context(), req.ObjectPath, req.ContentType, req.ExpiresSeconds)
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, signedURLResp{URL: url, Method: "PUT", ExpiresAt: exp.Unix()})
}

func (h *Uploads) signedURL(ctx context.Context, objectPath, contentType string, expiresSeconds int64) (string, time.Time, error) {
	if h.cfg.StorageBucket == "" {
		return "", time.Time{}, fmt.Errorf("FIREBASE_STORAGE_BUCKET is not set")
	}
	if h.cfg.SignedURLServiceAccountEmail == "" {
		return "", time.Time{}, fmt.Errorf("SIGNED_URL_SERVICE_ACCOUNT_EMAIL is not set")
	}
	if h.iam == nil {
		return "", time.Time{}, fmt.Errorf("IAM credentials client not available")
	}
	if expiresSeconds <= 0 || expiresSeconds > 3600 {
		expiresSeconds = 900
	}
	exp := time.Now().Add(time.Duration(expiresSeconds) * time.Second)

	// V4 signed URL for PUT (upload).
	opts := &storage.SignedURLOptions{
		Scheme:         storage.SigningSchemeV4,
		Method:         "PUT",
		Expires:        exp,
		ContentType:    contentType,
		GoogleAccessID: h.cfg.SignedURLServiceAccountEmail,
		SignBytes: func(b []byte) ([]byte, error) {
			name := fmt.Sprintf("projects/-/serviceAccounts/%s", h.cfg.SignedURLServiceAccountEmail)
			resp, err := h.iam.SignBlob(ctx, &credentialspb.SignBlobRequest{
				Name:    name,
				Payload: b,
			})
			if err != nil {
				return nil, err
			}
			return resp.SignedBlob, nil
		},
	}
	if opts.ContentType == "" {
		opts.ContentType = "application/octet-stream"
	}

	url, err := storage.SignedURL(h.cfg.StorageBucket, objectPath, opts)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign url (check service account + permissions): %v", err)
	}
	return url, exp, nil
}
