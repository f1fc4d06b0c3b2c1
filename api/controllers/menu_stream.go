package controllers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/angelmondragon/bitefinderz-backend/api/responses"
	"github.com/angelmondragon/bitefinderz-backend/api/validators"
	"github.com/angelmondragon/bitefinderz-backend/internal/menu"
	pkgerrors "github.com/angelmondragon/bitefinderz-backend/pkg/errors"
	"github.com/angelmondragon/bitefinderz-backend/pkg/logger"
)

// MenuStream serves a live menu over server-sent events. Each connection runs
// its own view service; every cart change pushes a freshly resolved view.
func MenuStream(factory *menu.ServiceFactory, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if factory == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "menu service unavailable"))
			return
		}

		cartID := strings.TrimSpace(r.URL.Query().Get("cart_id"))
		if cartID == "" {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "cart_id required"))
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "category_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		svc, err := factory.New(cartID, categoryID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "starting menu view"))
			return
		}

		ctx := r.Context()
		done := make(chan error, 1)
		go func() { done <- svc.Run(ctx) }()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for {
			select {
			case <-ctx.Done():
				return
			case err := <-done:
				if err != nil {
					logg.Error(ctx, "menu view stopped", err)
				}
				return
			case view := <-svc.Updates():
				payload, err := json.Marshal(toStreamEvent(view))
				if err != nil {
					logg.Error(ctx, "encoding menu view failed", err)
					continue
				}
				fmt.Fprintf(w, "event: menu\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}

type streamEvent struct {
	Generation uint64             `json:"generation"`
	ResolvedAt string             `json:"resolved_at"`
	Items      []menuItemResponse `json:"items"`
}

func toStreamEvent(view menu.View) streamEvent {
	page := menu.Page{Items: view.Items}
	return streamEvent{
		Generation: view.Generation,
		ResolvedAt: view.ResolvedAt.UTC().Format(time.RFC3339Nano),
		Items:      toMenuResponse(&page).Items,
	}
}
