package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/tweetvault/internal/domain"
	"github.com/MrSnakeDoc/tweetvault/internal/httpserver/deps"
	"github.com/MrSnakeDoc/tweetvault/internal/logger"
	"github.com/MrSnakeDoc/tweetvault/internal/store"
)

// PurgeConfirmation must be passed as ?confirm= to purge every record.
const PurgeConfirmation = "PURGE"

type listResponse struct {
	Category domain.Category  `json:"category,omitempty"`
	Count    int              `json:"count"`
	Records  []*domain.Record `json:"records"`
}

type deleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

type purgeResponse struct {
	Purged  bool   `json:"purged"`
	Message string `json:"message"`
}

// ListRecords returns the live records, newest first.
func ListRecords(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category, err := categoryParam(r)
		if err != nil {
			writeError(w, r, d, err)
			return
		}

		records, err := store.List(r.Context(), d.Store, category)
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		if records == nil {
			records = []*domain.Record{}
		}
		writeJSON(w, http.StatusOK, listResponse{Category: category, Count: len(records), Records: records})
	}
}

// GetRecord returns one record, soft-deleted or not.
func GetRecord(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec, err := d.Store.Get(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, r, d, err)
			return
		}
		writeJSON(w, http.StatusOK, rec)
	}
}

// DeleteRecord soft-deletes one record.
func DeleteRecord(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if err := d.Store.SoftDelete(r.Context(), id); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Info("record deleted", logger.String("id", id))
		writeJSON(w, http.StatusOK, deleteResponse{ID: id, Deleted: true})
	}
}

// PurgeRecords irreversibly removes every record. It requires ?confirm=PURGE.
func PurgeRecords(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("confirm") != PurgeConfirmation {
			writeError(w, r, d, fmt.Errorf("%w: purge requires ?confirm=%s", errBadRequest, PurgeConfirmation))
			return
		}
		if err := d.Store.PurgeAll(r.Context()); err != nil {
			writeError(w, r, d, err)
			return
		}
		d.Logger.Warn("all records purged", logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusOK, purgeResponse{Purged: true, Message: "all records removed"})
	}
}
