package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/fundraisely/backend/pkg/errorx"
	"github.com/fundraisely/backend/pkg/xcontext"

	"github.com/mitchellh/mapstructure"
	"github.com/rs/cors"
)

// Router registers json endpoints on a ServeMux. Every request handler runs
// with a context derived from the base context, which carries the configs,
// logger, database and token engine.
type Router struct {
	mux     *http.ServeMux
	baseCtx context.Context
}

func NewRouter(ctx context.Context) *Router {
	return &Router{
		mux:     http.NewServeMux(),
		baseCtx: ctx,
	}
}

func (r *Router) Handler() http.Handler {
	return cors.AllowAll().Handler(r.mux)
}

type responseBody struct {
	Code    int    `json:"code"`
	Error   string `json:"error,omitempty"`
	Data    any    `json:"data,omitempty"`
	Success bool   `json:"success"`
}

// GET registers a query-string endpoint.
func GET[Request, Response any](
	r *Router, path string,
	handle func(context.Context, *Request) (*Response, error),
) {
	register(r, http.MethodGet, path, false, handle)
}

// POST registers a json-body endpoint.
func POST[Request, Response any](
	r *Router, path string,
	handle func(context.Context, *Request) (*Response, error),
) {
	register(r, http.MethodPost, path, false, handle)
}

// AuthGET is GET behind access-token verification.
func AuthGET[Request, Response any](
	r *Router, path string,
	handle func(context.Context, *Request) (*Response, error),
) {
	register(r, http.MethodGet, path, true, handle)
}

// AuthPOST is POST behind access-token verification.
func AuthPOST[Request, Response any](
	r *Router, path string,
	handle func(context.Context, *Request) (*Response, error),
) {
	register(r, http.MethodPost, path, true, handle)
}

func register[Request, Response any](
	r *Router, method, path string, needAuth bool,
	handle func(context.Context, *Request) (*Response, error),
) {
	r.mux.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
		if req.Method != method {
			writeError(w, errorx.New(errorx.BadRequest, "Method is not allowed"))
			return
		}

		ctx := xcontext.WithHTTPRequest(r.baseCtx, req)

		if needAuth {
			var err error
			ctx, err = verifyAccessToken(ctx, req)
			if err != nil {
				writeError(w, err)
				return
			}
		}

		var request Request
		if err := decodeRequest(req, &request); err != nil {
			writeError(w, errorx.New(errorx.BadRequest, "Cannot parse the request"))
			return
		}

		resp, err := handle(ctx, &request)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Request %s failed: %v", path, err)
			writeError(w, err)
			return
		}

		writeJson(w, http.StatusOK, responseBody{Success: true, Data: resp})
	})
}

func verifyAccessToken(ctx context.Context, req *http.Request) (context.Context, error) {
	engine := xcontext.TokenEngine(ctx)
	if engine == nil {
		return nil, errorx.New(errorx.Internal, "No token engine is configured")
	}

	raw := strings.TrimPrefix(req.Header.Get("Authorization"), "Bearer ")
	if raw == "" {
		if cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name); err == nil {
			raw = cookie.Value
		}
	}

	if raw == "" {
		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}

	token, err := engine.Verify(raw)
	if err != nil {
		return nil, errorx.New(errorx.Unauthenticated, "Access token is not valid")
	}

	ctx = xcontext.WithRequestUserID(ctx, token.ID)
	ctx = xcontext.WithRequestWallet(ctx, token.Wallet)
	return ctx, nil
}

func decodeRequest(req *http.Request, v any) error {
	switch req.Method {
	case http.MethodGet, http.MethodDelete:
		values := map[string]any{}
		for key, value := range req.URL.Query() {
			if len(value) > 0 {
				values[key] = value[0]
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           v,
		})
		if err != nil {
			return err
		}

		return decoder.Decode(values)

	default:
		if req.Body == nil {
			return nil
		}

		if err := json.NewDecoder(req.Body).Decode(v); err != nil && err.Error() != "EOF" {
			return err
		}

		return nil
	}
}

func writeError(w http.ResponseWriter, err error) {
	var xerr errorx.Error
	if !errors.As(err, &xerr) {
		xerr = errorx.Unknown
	}

	writeJson(w, httpStatus(xerr.Code), responseBody{
		Code:  int(xerr.Code),
		Error: xerr.Message,
	})
}

func writeJson(w http.ResponseWriter, status int, resp responseBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, "cannot encode the response", http.StatusInternalServerError)
	}
}

func httpStatus(code errorx.Code) int {
	switch code {
	case errorx.Unauthenticated:
		return http.StatusUnauthorized
	case errorx.PermissionDenied:
		return http.StatusForbidden
	case errorx.NotFound, errorx.RoomNotFound:
		return http.StatusNotFound
	case errorx.Unavailable, errorx.EmergencyPause:
		return http.StatusServiceUnavailable
	case errorx.Internal:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
