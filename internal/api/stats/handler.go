package stats

import "scmsapi/internal/api"

type Handler struct {
	*api.Handler
}
