package handlers

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"io"
	"log"
	"mime"
	"mime/multipart"
	"net/http"

	"arboriza/backend/internal/httpjson"
	"arboriza/backend/internal/plantnet"
)

const maxIdentifyBody = 15 << 20

// Identify proxies identification requests to the vendor so the API key
// never reaches the client. Successful vendor responses are relayed
// verbatim; vendor failures keep their status with the message rewrapped.
type Identify struct {
	Client *plantnet.Client
	APIKey string
}

func (h *Identify) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The proxy answers its own CORS preflight, reflecting the origin.
	origin := r.Header.Get("Origin")
	if origin == "" {
		origin = "*"
	}
	w.Header().Set("Access-Control-Allow-Origin", origin)
	w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	switch r.Method {
	case http.MethodOptions:
		w.WriteHeader(http.StatusNoContent)
		return
	case http.MethodPost:
	default:
		w.Header().Set("Allow", "POST, OPTIONS")
		http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "multipart/form-data" || params["boundary"] == "" {
		httpjson.Error(w, http.StatusBadRequest, "Requisição inválida: multipart/form-data esperado.")
		return
	}
	boundary := params["boundary"]

	raw, err := io.ReadAll(io.LimitReader(r.Body, maxIdentifyBody))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "Falha ao ler o corpo da requisição.")
		return
	}
	raw = decodeBodyIfBase64(raw, boundary)

	img, err := extractImage(raw, boundary)
	if err != nil || len(img.Data) == 0 {
		httpjson.Error(w, http.StatusBadRequest, "Nenhuma imagem enviada ou imagem vazia.")
		return
	}

	if h.APIKey == "" {
		log.Printf("identify called without PLANTNET_API_KEY configured")
		httpjson.Error(w, http.StatusInternalServerError, "Erro de configuração do servidor (chave API em falta).")
		return
	}

	res, err := h.Client.IdentifyRaw(r.Context(), h.APIKey, img)
	if err != nil {
		log.Printf("identification relay failed: %v", err)
		httpjson.Error(w, http.StatusInternalServerError, "Falha interna no servidor: "+err.Error())
		return
	}

	// Vendor failures keep the vendor's status but are rewrapped into the
	// {error} shape clients read.
	if res.StatusCode < 200 || res.StatusCode > 299 {
		var vendor struct {
			Message string `json:"message"`
		}
		_ = json.Unmarshal(res.Body, &vendor)
		msg := vendor.Message
		if msg == "" {
			msg = http.StatusText(res.StatusCode)
		}
		httpjson.Error(w, res.StatusCode, msg)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(res.StatusCode)
	_, _ = w.Write(res.Body)
}

// decodeBodyIfBase64 accepts bodies that arrive base64-encoded by the edge.
// A real multipart body starts with the boundary delimiter; anything else is
// probed as base64 and kept as-is when the probe fails.
func decodeBodyIfBase64(body []byte, boundary string) []byte {
	delim := []byte("--" + boundary)
	if bytes.HasPrefix(bytes.TrimLeft(body, "\r\n"), delim) {
		return body
	}
	decoded, err := base64.StdEncoding.DecodeString(string(bytes.TrimSpace(body)))
	if err != nil {
		return body
	}
	if !bytes.HasPrefix(bytes.TrimLeft(decoded, "\r\n"), delim) {
		return body
	}
	return decoded
}

// extractImage pulls the first file part out of the form. The field is
// accepted under either name the clients have used.
func extractImage(body []byte, boundary string) (plantnet.Image, error) {
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			return plantnet.Image{}, io.ErrUnexpectedEOF
		}
		if err != nil {
			return plantnet.Image{}, err
		}
		name := part.FormName()
		if name != "image" && name != "images" {
			continue
		}
		data, err := io.ReadAll(part)
		if err != nil {
			return plantnet.Image{}, err
		}
		return plantnet.Image{
			Filename:    part.FileName(),
			ContentType: part.Header.Get("Content-Type"),
			Data:        data,
		}, nil
	}
}
