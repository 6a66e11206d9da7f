package builder

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/angelmondragon/florale-backend/api/middleware"
	buildersvc "github.com/angelmondragon/florale-backend/internal/builder"
	"github.com/angelmondragon/florale-backend/internal/cart"
	"github.com/angelmondragon/florale-backend/internal/catalog"
	pkgerrors "github.com/angelmondragon/florale-backend/pkg/errors"
)

type stubBuilderService struct {
	view       buildersvc.View
	err        error
	calls      []string
	step       int
	update     buildersvc.UpdateInput
	summary    cart.Summary
	addToCartE error
}

func (s *stubBuilderService) record(call string) (buildersvc.View, error) {
	s.calls = append(s.calls, call)
	return s.view, s.err
}

func (s *stubBuilderService) Get(ctx context.Context, sessionID string) (buildersvc.View, error) {
	return s.record("get")
}

func (s *stubBuilderService) Options() catalog.Options {
	return catalog.Options{Styles: []catalog.Style{{ID: "romantic", Name: "Romantic"}}}
}

func (s *stubBuilderService) Next(ctx context.Context, sessionID string) (buildersvc.View, error) {
	return s.record("next")
}

func (s *stubBuilderService) Prev(ctx context.Context, sessionID string) (buildersvc.View, error) {
	return s.record("prev")
}

func (s *stubBuilderService) SetStep(ctx context.Context, sessionID string, step int) (buildersvc.View, error) {
	s.step = step
	return s.record("set_step")
}

func (s *stubBuilderService) Update(ctx context.Context, sessionID string, input buildersvc.UpdateInput) (buildersvc.View, error) {
	s.update = input
	return s.record("update")
}

func (s *stubBuilderService) Reset(ctx context.Context, sessionID string) (buildersvc.View, error) {
	return s.record("reset")
}

func (s *stubBuilderService) AddToCart(ctx context.Context, sessionID string) (cart.Summary, error) {
	s.calls = append(s.calls, "add_to_cart")
	return s.summary, s.addToCartE
}

func withSession(req *http.Request) *http.Request {
	return req.WithContext(middleware.WithSessionID(req.Context(), "session-1234"))
}

func TestBuilderNavigationHandlers(t *testing.T) {
	svc := &stubBuilderService{view: buildersvc.View{CurrentStep: 2}}
	handlers := []http.HandlerFunc{
		BuilderFetch(svc, nil),
		BuilderNext(svc, nil),
		BuilderPrev(svc, nil),
		BuilderReset(svc, nil),
	}
	for _, h := range handlers {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/builder", nil)))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 got %d", resp.Code)
		}
	}
	if strings.Join(svc.calls, ",") != "get,next,prev,reset" {
		t.Fatalf("unexpected calls %v", svc.calls)
	}
}

func TestBuilderSetStepValidatesRange(t *testing.T) {
	svc := &stubBuilderService{}
	handler := BuilderSetStep(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, withSession(httptest.NewRequest(http.MethodPut, "/api/v1/builder/step", strings.NewReader(`{"step":7}`))))
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, withSession(httptest.NewRequest(http.MethodPut, "/api/v1/builder/step", strings.NewReader(`{"step":4}`))))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.step != 4 {
		t.Fatalf("expected step 4 forwarded, got %d", svc.step)
	}
}

func TestBuilderUpdateForwardsOptionIDs(t *testing.T) {
	svc := &stubBuilderService{}
	handler := BuilderUpdate(svc, nil)

	body := `{"style_id":"romantic","size_id":"medium","card_message":"For you"}`
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, withSession(httptest.NewRequest(http.MethodPatch, "/api/v1/builder/config", strings.NewReader(body))))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.update.StyleID == nil || *svc.update.StyleID != "romantic" {
		t.Fatalf("style not forwarded: %+v", svc.update)
	}
	if svc.update.SizeID == nil || *svc.update.SizeID != "medium" {
		t.Fatalf("size not forwarded: %+v", svc.update)
	}
	if svc.update.PaletteID != nil {
		t.Fatalf("palette should stay unset")
	}
}

func TestBuilderOptions(t *testing.T) {
	handler := BuilderOptions(&stubBuilderService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/builder/options", nil))

	var envelope struct {
		Data catalog.Options `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Styles) != 1 || envelope.Data.Styles[0].ID != "romantic" {
		t.Fatalf("unexpected options %+v", envelope.Data)
	}
}

func TestBuilderAddToCartIncompleteIs422(t *testing.T) {
	svc := &stubBuilderService{addToCartE: pkgerrors.New(pkgerrors.CodeStateConflict, "bouquet configuration incomplete")}
	handler := BuilderAddToCart(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/builder/add-to-cart", nil)))

	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 got %d", resp.Code)
	}
}

func TestBuilderAddToCartReturnsCart(t *testing.T) {
	svc := &stubBuilderService{summary: cart.Summary{Total: 5700, ItemsCount: 1}}
	handler := BuilderAddToCart(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, withSession(httptest.NewRequest(http.MethodPost, "/api/v1/builder/add-to-cart", nil)))

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
	var envelope struct {
		Data cart.Summary `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Total != 5700 {
		t.Fatalf("unexpected summary %+v", envelope.Data)
	}
}
