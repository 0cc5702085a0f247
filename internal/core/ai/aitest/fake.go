// Package aitest 提供測試用的假 AI 提供者
package aitest

import (
	"context"
	"sync"
	"time"

	"health-heroes/internal/core/ai/provider"
)

// Provider 依序回傳預設回應的假提供者
type Provider struct {
	mu        sync.Mutex
	responses []string
	errs      []error
	Requests  []*provider.Request
}

// NewProvider 建立依序回傳 responses 的假提供者
func NewProvider(responses ...string) *Provider {
	return &Provider{responses: responses}
}

// FailWith 讓接下來的呼叫依序回傳錯誤
func (p *Provider) FailWith(errs ...error) *Provider {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, errs...)
	return p
}

// Push 追加回應
func (p *Provider) Push(responses ...string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.responses = append(p.responses, responses...)
}

func (p *Provider) Generate(ctx context.Context, req *provider.Request) (*provider.Response, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.Requests = append(p.Requests, req)
	if len(p.errs) > 0 {
		err := p.errs[0]
		p.errs = p.errs[1:]
		return nil, err
	}
	if len(p.responses) == 0 {
		return nil, provider.ErrEmptyResponse
	}
	content := p.responses[0]
	if len(p.responses) > 1 {
		p.responses = p.responses[1:]
	}
	return &provider.Response{Content: content, Model: "fake"}, nil
}

// Calls 已收到的請求數
func (p *Provider) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.Requests)
}

// LastRequest 最後一次收到的請求
func (p *Provider) LastRequest() *provider.Request {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.Requests) == 0 {
		return nil
	}
	return p.Requests[len(p.Requests)-1]
}

func (p *Provider) GetModel() string          { return "fake" }
func (p *Provider) GetTimeout() time.Duration { return time.Second }
func (p *Provider) Close() error              { return nil }
