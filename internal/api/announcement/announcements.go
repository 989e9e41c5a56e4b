package announcement

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/internal/store"
	"scmsapi/pkg/schemas"
	"time"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) ListAnnouncements(w http.ResponseWriter, r *http.Request) {

	resParams := &api.ResParams{W: w, R: r}

	announcements, err := h.Store.Announcements.List(r.Context())
	if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = announcements
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

// CreateAnnouncement posts now unless postAt is given.
func (h *Handler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	resParams := &api.ResParams{W: w, R: r}

	var reqData struct {
		Title   string     `json:"title" validate:"required,maxgraphemes=128"`
		Content string     `json:"content" validate:"required,maxgraphemes=4096"`
		PostAt  *time.Time `json:"postAt"`
	}
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	now := time.Now().UTC()
	announcement := &schemas.Announcement{
		Title:     reqData.Title,
		Content:   reqData.Content,
		PostAt:    now,
		CreatedAt: now,
	}
	if reqData.PostAt != nil {
		announcement.PostAt = reqData.PostAt.UTC()
	}

	if err := h.Store.Announcements.Insert(r.Context(), announcement); err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = announcement
	resParams.Code = http.StatusCreated
	h.Res(resParams)

}

func (h *Handler) UpdateAnnouncement(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	id := chi.URLParam(r, "id")
	resParams := &api.ResParams{W: w, R: r}

	var reqData store.AnnouncementUpdate
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	if reqData.Empty() {
		resParams.Code = http.StatusBadRequest
		resParams.Err = errors.New("nothing to update")
		h.Res(resParams)
		return
	}

	announcement, err := h.Store.Announcements.Update(r.Context(), id, &reqData)
	if err != nil {
		api.StoreErr(resParams, err, "announcement")
		h.Res(resParams)
		return
	}

	resParams.ResData = announcement
	resParams.Code = http.StatusOK
	h.Res(resParams)

}

func (h *Handler) DeleteAnnouncement(w http.ResponseWriter, r *http.Request) {

	id := chi.URLParam(r, "id")
	resParams := &api.ResParams{W: w, R: r, ReqData: id}

	if err := h.Store.Announcements.Delete(r.Context(), id); err != nil {
		api.StoreErr(resParams, err, "announcement")
		h.Res(resParams)
		return
	}

	resParams.ResData = &api.Message{Message: "announcement deleted"}
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
