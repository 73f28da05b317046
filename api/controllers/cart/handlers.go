package cart

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/campusworks/storefront-checkout/api/middleware"
	"github.com/campusworks/storefront-checkout/api/responses"
	"github.com/campusworks/storefront-checkout/api/validators"
	cartsvc "github.com/campusworks/storefront-checkout/internal/cart"
	pkgerrors "github.com/campusworks/storefront-checkout/pkg/errors"
	"github.com/campusworks/storefront-checkout/pkg/logger"
)

// CartFetch returns the session's cart snapshot.
func CartFetch(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, _, err := loadCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(c))
	}
}

// CartAddItem adds a line, merging into an existing line with the same
// product/variant key.
func CartAddItem(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload AddItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, sessionID, err := loadCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c.AddItem(toItem(payload), payload.Quantity)

		if err := store.Save(r.Context(), sessionID, c.Items()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, newCartView(c))
	}
}

// CartUpdateItem sets a line's quantity; zero or below removes the line.
func CartUpdateItem(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		var payload UpdateItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, sessionID, err := loadCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if _, ok := c.Item(key); !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found"))
			return
		}

		c.UpdateQuantity(key, payload.Quantity)

		if err := store.Save(r.Context(), sessionID, c.Items()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(c))
	}
}

// CartRemoveItem deletes a line by its composite key.
func CartRemoveItem(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		key := chi.URLParam(r, "key")

		c, sessionID, err := loadCart(r, store)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if !c.RemoveItem(key) {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found"))
			return
		}

		if err := store.Save(r.Context(), sessionID, c.Items()); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(c))
	}
}

// CartClear drops every line and the persisted snapshot.
func CartClear(store cartsvc.Store, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID, err := sessionIDFromRequest(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := store.Delete(r.Context(), sessionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, newCartView(cartsvc.New()))
	}
}

func loadCart(r *http.Request, store cartsvc.Store) (*cartsvc.Cart, string, error) {
	sessionID, err := sessionIDFromRequest(r)
	if err != nil {
		return nil, "", err
	}
	items, err := store.Load(r.Context(), sessionID)
	if err != nil {
		return nil, "", err
	}
	return cartsvc.Restore(items), sessionID, nil
}

func sessionIDFromRequest(r *http.Request) (string, error) {
	var ctx context.Context
	if r != nil {
		ctx = r.Context()
	}
	sessionID := middleware.SessionIDFromContext(ctx)
	if sessionID == "" {
		return "", pkgerrors.New(pkgerrors.CodeInternal, "session context missing")
	}
	return sessionID, nil
}
