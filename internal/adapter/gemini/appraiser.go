package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"oss-matchmaker/internal/common"
	"oss-matchmaker/internal/domain"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const modelName = "gemini-2.5-flash-lite"

// GeminiAppraiser 实现了 port.Appraiser 接口
type GeminiAppraiser struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// 定义一个内部结构体来接收 AI 返回的 JSON
type aiResponse struct {
	Summary string `json:"summary"`
}

func NewGeminiAppraiser(ctx context.Context, apiKey string) (*GeminiAppraiser, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	model := client.GenerativeModel(modelName)
	// 强制要求返回 JSON，降低解析错误的概率
	model.ResponseMIMEType = "application/json"

	return &GeminiAppraiser{
		client: client,
		model:  model,
	}, nil
}

// Close 释放底层 gRPC 连接
func (g *GeminiAppraiser) Close() error {
	return g.client.Close()
}

// Summarize 为仓库分析生成一段面向新贡献者的总结
func (g *GeminiAppraiser) Summarize(ctx context.Context, analysis *domain.RepoAnalysis) (string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(buildPrompt(analysis)))
	if err != nil {
		return "", common.WrapError(common.ErrCodeAIProcessing, "AI 调用失败", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", common.NewError(common.ErrCodeAIProcessing, "AI 返回内容为空")
	}

	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return "", common.NewError(common.ErrCodeAIProcessing, "AI 返回格式错误")
	}

	res, err := parseAIResponse(string(text))
	if err != nil {
		return "", common.WrapError(common.ErrCodeAIProcessing, "AI 返回无法解析", err)
	}
	return res.Summary, nil
}

func buildPrompt(a *domain.RepoAnalysis) string {
	var insights strings.Builder
	for _, in := range a.Insights {
		fmt.Fprintf(&insights, "- [%s] %s: %s\n", in.Type, in.Title, in.Description)
	}

	languages := make([]string, 0, len(a.Languages))
	for _, l := range a.Languages {
		languages = append(languages, l.Name)
	}

	repo := a.Repository
	return fmt.Sprintf(`
You are helping a developer decide whether to contribute to an open-source project.

Repository: %s
Description: %s
Languages: %s
Stars: %d, forks: %d, open issues: %d
Scores (0-100): recency %d, popularity %d, contributor friendliness %d, overall %d
Insights:
%s
Return strict JSON with a single field "summary": two or three sentences, in English,
telling a new contributor what the project is and how approachable it is.
Do not wrap the JSON in Markdown.
`, repo.FullName, repo.Description, strings.Join(languages, ", "),
		repo.Stars, repo.Forks, repo.OpenIssues,
		a.RecencyScore, a.PopularityScore, a.ContributorFriendliness, a.OverallScore,
		insights.String())
}

// parseAIResponse 从模型输出中抠出 JSON。
// 即使返回 "```json { ... } ```" 也能找到中间的 { ... }
func parseAIResponse(raw string) (*aiResponse, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("无法提取 JSON, AI 原文: %s", raw)
	}

	var res aiResponse
	if err := json.Unmarshal([]byte(raw[start:end+1]), &res); err != nil {
		return nil, fmt.Errorf("JSON 解析失败: %w", err)
	}
	if strings.TrimSpace(res.Summary) == "" {
		return nil, fmt.Errorf("summary 为空")
	}
	return &res, nil
}
