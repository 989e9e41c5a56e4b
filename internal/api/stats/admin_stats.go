package stats

import (
	"context"
	"net/http"
	"scmsapi/internal/api"
	"scmsapi/pkg/config"
)

type adminStats struct {
	TotalCourts   int64 `json:"totalCourts"`
	TotalUsers    int64 `json:"totalUsers"`
	TotalMembers  int64 `json:"totalMembers"`
	TotalBookings int64 `json:"totalBookings"`
	TotalPayments int64 `json:"totalPayments"`
}

func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {

	ctx := r.Context()
	resParams := &api.ResParams{W: w, R: r}

	var stats adminStats
	counts := []struct {
		dst   *int64
		count func(context.Context) (int64, error)
	}{
		{&stats.TotalCourts, h.Store.Courts.Count},
		{&stats.TotalUsers, func(ctx context.Context) (int64, error) { return h.Store.Users.Count(ctx, "") }},
		{&stats.TotalMembers, func(ctx context.Context) (int64, error) { return h.Store.Users.Count(ctx, config.ROLE_MEMBER) }},
		{&stats.TotalBookings, h.Store.Bookings.Count},
		{&stats.TotalPayments, h.Store.Payments.Count},
	}

	for _, c := range counts {
		n, err := c.count(ctx)
		if err != nil {
			resParams.Code = http.StatusInternalServerError
			resParams.Err = err
			h.Res(resParams)
			return
		}
		*c.dst = n
	}

	resParams.ResData = &stats
	resParams.Code = http.StatusOK
	h.Res(resParams)

}
