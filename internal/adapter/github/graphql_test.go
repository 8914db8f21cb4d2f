package github

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"

	"oss-matchmaker/internal/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSource_ContributionCalendar(t *testing.T) {
	t.Run("按日期展开", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)

			var req graphqlRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Contains(t, req.Query, "contributionCalendar")
			assert.Equal(t, "octo", req.Variables["username"])
			assert.NotEmpty(t, req.Variables["from"])

			_, _ = io.WriteString(w, `{"data":{"user":{"contributionsCollection":{"contributionCalendar":{
				"totalContributions": 7,
				"weeks": [
					{"contributionDays":[{"date":"2026-10-11","contributionCount":0},{"date":"2026-10-12","contributionCount":3}]},
					{"contributionDays":[{"date":"2026-10-13","contributionCount":4}]}
				]}}}}}`)
		})
		src := setupMockGitHubServer(t, mux)

		cal, err := src.ContributionCalendar(context.Background(), "octo")

		require.NoError(t, err)
		assert.Equal(t, 7, cal.TotalContributions)
		assert.Equal(t, map[string]int{"2026-10-11": 0, "2026-10-12": 3, "2026-10-13": 4}, cal.ByDate)
	})

	t.Run("用户不存在返回空日历", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"data":{"user":null}}`)
		})
		src := setupMockGitHubServer(t, mux)

		cal, err := src.ContributionCalendar(context.Background(), "nobody")

		require.NoError(t, err)
		assert.Equal(t, 0, cal.TotalContributions)
		assert.Empty(t, cal.ByDate)
	})

	t.Run("GraphQL errors", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
			_, _ = io.WriteString(w, `{"errors":[{"message":"rate limited"},{"message":"try later"}]}`)
		})
		src := setupMockGitHubServer(t, mux)

		_, err := src.ContributionCalendar(context.Background(), "octo")

		require.Error(t, err)
		assert.Equal(t, common.ErrCodeUpstream, common.CodeOf(err))
		assert.Contains(t, err.Error(), "rate limited; try later")
	})

	t.Run("未授权不重试", func(t *testing.T) {
		calls := 0
		mux := http.NewServeMux()
		mux.HandleFunc("/graphql", func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"message":"This endpoint requires you to be authenticated."}`)
		})
		src := setupMockGitHubServer(t, mux)

		_, err := src.ContributionCalendar(context.Background(), "octo")

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})
}
