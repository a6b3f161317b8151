package rest

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/common"
	"github.com/dmitrijs2005/notekeeper/internal/server/models"
)

// OwnedResource is the service contract behind the per-resource routes.
type OwnedResource[R, C, P any] interface {
	Create(ctx context.Context, owner *models.User, in *C) (*R, error)
	List(ctx context.Context, owner *models.User, page models.Page) ([]*R, error)
	Get(ctx context.Context, owner *models.User, id int64) (*R, error)
	Update(ctx context.Context, owner *models.User, id int64, patch *P) (*R, error)
	Delete(ctx context.Context, owner *models.User, id int64) error
}

type resourceHandlers[R, C, P any] struct {
	svc            OwnedResource[R, C, P]
	notFoundDetail string
}

func (h *resourceHandlers[R, C, P]) mapErr(err error) error {
	if errors.Is(err, common.ErrNotFound) {
		return notFound(h.notFoundDetail, err)
	}
	return err
}

func (h *resourceHandlers[R, C, P]) create(w http.ResponseWriter, r *http.Request, user *models.User) error {
	var in C
	if err := decodeJSON(w, r, &in); err != nil {
		return err
	}
	if err := validateStruct(&in); err != nil {
		return err
	}

	out, err := h.svc.Create(r.Context(), user, &in)
	if err != nil {
		return h.mapErr(err)
	}
	return respond(w, http.StatusCreated, out)
}

func (h *resourceHandlers[R, C, P]) list(w http.ResponseWriter, r *http.Request, user *models.User) error {
	page, err := pageFromQuery(r)
	if err != nil {
		return err
	}

	out, err := h.svc.List(r.Context(), user, page)
	if err != nil {
		return err
	}
	return respond(w, http.StatusOK, out)
}

func (h *resourceHandlers[R, C, P]) get(w http.ResponseWriter, r *http.Request, user *models.User) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	out, err := h.svc.Get(r.Context(), user, id)
	if err != nil {
		return h.mapErr(err)
	}
	return respond(w, http.StatusOK, out)
}

func (h *resourceHandlers[R, C, P]) update(w http.ResponseWriter, r *http.Request, user *models.User) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}
	var patch P
	if err := decodeJSON(w, r, &patch); err != nil {
		return err
	}

	out, err := h.svc.Update(r.Context(), user, id, &patch)
	if err != nil {
		return h.mapErr(err)
	}
	return respond(w, http.StatusOK, out)
}

func (h *resourceHandlers[R, C, P]) delete(w http.ResponseWriter, r *http.Request, user *models.User) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.svc.Delete(r.Context(), user, id); err != nil {
		return h.mapErr(err)
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		return 0, unprocessable("id: value is not a valid integer")
	}
	return id, nil
}

// pageFromQuery reads skip and limit. Non-integers are rejected; out of
// range values are clamped.
func pageFromQuery(r *http.Request) (models.Page, error) {
	page := models.Page{Skip: 0, Limit: models.DefaultLimit}
	q := r.URL.Query()

	if v := q.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, unprocessable("skip: value is not a valid integer")
		}
		page.Skip = n
	}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return page, unprocessable("limit: value is not a valid integer")
		}
		page.Limit = n
	}
	return page.Normalize(), nil
}
