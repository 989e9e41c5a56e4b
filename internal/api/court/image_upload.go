package court

import (
	"errors"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/pkg/utils"
)

// ImageUpload returns a presigned PUT url. The client uploads the image itself
// and then sends the returned imageUrl as the court image.
func (h *Handler) ImageUpload(w http.ResponseWriter, r *http.Request) {

	defer r.Body.Close()
	resParams := &api.ResParams{W: w, R: r}

	if h.Images == nil {
		resParams.Code = http.StatusServiceUnavailable
		resParams.Err = errors.New("image storage is not configured")
		h.Res(resParams)
		return
	}

	var reqData struct {
		ContentType string `json:"contentType" validate:"required"`
	}
	if err := h.Bind(r, &reqData); err != nil {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	}
	resParams.ReqData = reqData

	upload, err := h.Images.PresignCourtImage(r.Context(), reqData.ContentType)
	if errors.Is(err, utils.ErrUnsupportedImageType) {
		resParams.Code = http.StatusBadRequest
		resParams.Err = err
		h.Res(resParams)
		return
	} else if err != nil {
		resParams.Code = http.StatusInternalServerError
		resParams.Err = err
		h.Res(resParams)
		return
	}

	resParams.ResData = upload
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
