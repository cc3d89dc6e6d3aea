package handlers

import (
	"fmt"
	"io"
	"mime"
	"net/http"

	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
)

const (
	defaultUploadName = "upload.json"
	multipartMemory   = 32 << 20
)

// Import ingests an export file sent as the raw body (?name= gives the file
// name) or as the "file" field of a multipart form.
func Import(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.MaxUploadBytes > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, d.MaxUploadBytes)
		}

		name, data, err := readUpload(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		res, err := d.Importer.Import(r.Context(), data, name)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusCreated, res)
	}
}

func readUpload(r *http.Request) (string, []byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return "", nil, fmt.Errorf("failed to read upload: %w", err)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			return "", nil, fmt.Errorf("%w: missing multipart field \"file\"", errBadRequest)
		}
		defer func() { _ = file.Close() }()

		data, err := io.ReadAll(file)
		if err != nil {
			return "", nil, fmt.Errorf("failed to read upload: %w", err)
		}
		return header.Filename, data, nil
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		name = defaultUploadName
	}
	data, err := io.ReadAll(r.Body)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return name, data, nil
}
