package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/artpar/digigate/adapters/idgen"
	"github.com/artpar/digigate/app"
	"github.com/artpar/digigate/domain/trx"
	"github.com/artpar/digigate/ports"
	"github.com/rs/zerolog"
)

// fakeUpstream records the dispatched call and returns a canned response.
type fakeUpstream struct {
	call trx.OutboundCall
	opts ports.DispatchOptions
	resp trx.ProviderResponse
	err  error
}

func (f *fakeUpstream) Dispatch(ctx context.Context, call trx.OutboundCall, opts ports.DispatchOptions) (trx.ProviderResponse, error) {
	f.call = call
	f.opts = opts
	return f.resp, f.err
}

func newGateway(members fakeMembers, products fakeProducts, modules fakeModules, up ports.Upstream) *app.GatewayService {
	nop := zerolog.Nop()
	return app.NewGatewayService(app.GatewayDeps{
		Members:  app.NewMemberAuthService(members, nop),
		Products: app.NewProductAuthService(products, nop),
		Modules:  app.NewModuleAuthService(modules, nop),
		Builder:  app.NewQueryBuilder(products, modules, idgen.NewSequential("trx-"), nop),
		Upstream: up,
	}, nop)
}

func TestGateway_HappyPath(t *testing.T) {
	m := testMember()
	p := testProduct()
	mod := testModule()
	up := &fakeUpstream{resp: trx.ProviderResponse{Status: 200, Body: []byte(`{"ok":true}`), LatencyMs: 12}}

	gw := newGateway(
		fakeMembers{m.MemberID: m},
		fakeProducts{p.ProductID: p},
		fakeModules{mod.ModuleID: mod},
		up,
	)

	req := buildRequest()
	req.PIN = m.PIN.Value()
	resp, err := gw.Handle(context.Background(), "digipos", req)
	if err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if resp.Status != 200 || string(resp.Body) != `{"ok":true}` {
		t.Errorf("response = %d %q", resp.Status, resp.Body)
	}

	if want := mod.BaseURL + p.APIPath; up.call.URL != want {
		t.Errorf("dispatched url = %q, want %q", up.call.URL, want)
	}
	if up.opts.Timeout != 30*time.Second {
		t.Errorf("timeout = %v, want 30s from the module record", up.opts.Timeout)
	}
	if up.opts.MaxRetries != 2 {
		t.Errorf("max retries = %d, want 2", up.opts.MaxRetries)
	}
	if up.opts.RetryWait != time.Second {
		t.Errorf("retry wait = %v, want 1s", up.opts.RetryWait)
	}
	if up.opts.AsJSON {
		t.Error("AsJSON = true, want false for json: 0")
	}
}

func TestGateway_AsJSONFromProduct(t *testing.T) {
	m := testMember()
	p := testProduct()
	p.AsJSON = 1
	mod := testModule()
	up := &fakeUpstream{resp: trx.ProviderResponse{Status: 200}}

	gw := newGateway(
		fakeMembers{m.MemberID: m},
		fakeProducts{p.ProductID: p},
		fakeModules{mod.ModuleID: mod},
		up,
	)

	req := buildRequest()
	req.PIN = m.PIN.Value()
	if _, err := gw.Handle(context.Background(), "digipos", req); err != nil {
		t.Fatalf("Handle error: %v", err)
	}
	if !up.opts.AsJSON {
		t.Error("AsJSON = false, want true for json: 1")
	}
}

func TestGateway_MemberRejectionShortCircuits(t *testing.T) {
	p := testProduct()
	mod := testModule()
	up := &fakeUpstream{}

	gw := newGateway(fakeMembers{}, fakeProducts{p.ProductID: p}, fakeModules{mod.ModuleID: mod}, up)

	_, err := gw.Handle(context.Background(), "digipos", buildRequest())
	wantAuthError(t, err, app.StageMember, app.CodeNotFound)
	if up.call.URL != "" {
		t.Error("upstream was dispatched despite member rejection")
	}
}

func TestGateway_ModuleNotAllowedForProduct(t *testing.T) {
	m := testMember()
	p := testProduct()
	p.ListModules = []string{"MOD99"} // authorized product, but not for this module
	mod := testModule()

	gw := newGateway(
		fakeMembers{m.MemberID: m},
		fakeProducts{p.ProductID: p},
		fakeModules{mod.ModuleID: mod},
		&fakeUpstream{},
	)

	req := buildRequest()
	req.PIN = m.PIN.Value()
	_, err := gw.Handle(context.Background(), "digipos", req)
	wantAuthError(t, err, app.StageProduct, app.CodeModuleNotAllowed)
}

func TestGateway_UpstreamErrorWrapped(t *testing.T) {
	m := testMember()
	p := testProduct()
	mod := testModule()
	boom := errors.New("connection refused")

	gw := newGateway(
		fakeMembers{m.MemberID: m},
		fakeProducts{p.ProductID: p},
		fakeModules{mod.ModuleID: mod},
		&fakeUpstream{err: boom},
	)

	req := buildRequest()
	req.PIN = m.PIN.Value()
	_, err := gw.Handle(context.Background(), "digipos", req)
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped upstream error, got %v", err)
	}
	if _, ok := app.AsAuthError(err); ok {
		t.Error("upstream failure must not surface as an authorization error")
	}
}
