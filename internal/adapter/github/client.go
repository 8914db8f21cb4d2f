package github

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"
	"oss-matchmaker/internal/port"

	"github.com/google/go-github/v53/github"
	"golang.org/x/oauth2"
)

// Options GitHub 客户端配置
type Options struct {
	// BaseURL 为空时使用 api.github.com，GitHub Enterprise 时填 https://host/api/v3/
	BaseURL      string
	MaxRetries   int
	InitialDelay time.Duration
}

// Factory 实现了 port.SourceFactory 接口
type Factory struct {
	opts Options
}

// NewFactory 创建 Source 工厂
func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts}
}

// ForUser 用用户自己的 token 访问 GitHub，token 为空时匿名访问
func (f *Factory) ForUser(user *domain.User) port.Source {
	token := ""
	if user != nil {
		token = user.AccessToken
	}
	return NewSource(token, f.opts)
}

// Source 实现了 port.Source 接口
type Source struct {
	client    *github.Client
	retryOpts []common.Option
}

// NewSource 初始化 GitHub 客户端
// token: GitHub access token (如果是空字符串，就是匿名访问，限制 60次/小时)
func NewSource(token string, opts Options) *Source {
	var httpClient *http.Client
	if token != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	}

	client := github.NewClient(httpClient)
	if opts.BaseURL != "" {
		base := opts.BaseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		if u, err := url.Parse(base); err == nil {
			client.BaseURL = u
		}
	}

	return newSourceWithClient(client, opts)
}

func newSourceWithClient(client *github.Client, opts Options) *Source {
	retryOpts := []common.Option{common.WithMaxRetries(3), common.WithInitialDelay(time.Second)}
	if opts.MaxRetries > 0 {
		retryOpts = append(retryOpts, common.WithMaxRetries(opts.MaxRetries))
	}
	if opts.InitialDelay > 0 {
		retryOpts = append(retryOpts, common.WithInitialDelay(opts.InitialDelay))
	}
	return &Source{client: client, retryOpts: retryOpts}
}

// call 带重试地执行一次 GitHub 调用。除 429 以外的 4xx 不重试
func (s *Source) call(ctx context.Context, operation string, fn func() (*github.Response, error)) error {
	err := common.Do(ctx, func() error {
		resp, err := fn()
		if err != nil && isClientError(resp) {
			return common.Permanent(err)
		}
		return err
	}, s.retryOpts...)
	if err != nil {
		common.UpstreamFailures.WithLabelValues(operation).Inc()
		return common.WrapError(common.ErrCodeUpstream, "GitHub API 调用失败: "+operation, err)
	}
	return nil
}

func isClientError(resp *github.Response) bool {
	if resp == nil || resp.Response == nil {
		return false
	}
	code := resp.StatusCode
	return code >= 400 && code < 500 && code != http.StatusTooManyRequests
}

// isNotFound 判断错误链上是否是 GitHub 的 404
func isNotFound(err error) bool {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode == http.StatusNotFound
	}
	return false
}
