package generator

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// ── MockClient — Local Development ─────────────────────────

// MockClient fabricates plausible responses for both call types so the
// full pipeline can run without network access.
type MockClient struct {
	mu    sync.Mutex
	calls int
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

var mockSentences = []struct {
	japanese string
	answer   string
	hint     string
}{
	{"私は毎朝七時に起きます。", "I get up at seven every morning.", "get up = 起きる"},
	{"昨日、友達と映画を見ました。", "I watched a movie with my friend yesterday.", "過去形に注意"},
	{"この資料を金曜日までに送ってください。", "Please send this document by Friday.", "by = 〜までに"},
	{"会議は午後三時に始まる予定です。", "The meeting is scheduled to start at 3 p.m.", "be scheduled to = 〜する予定"},
}

func (m *MockClient) Generate(ctx context.Context, systemPrompt string, userPrompt string, opts CallOptions) (*LLMResponse, error) {
	m.mu.Lock()
	n := m.calls
	m.calls++
	m.mu.Unlock()

	var content string
	if strings.Contains(userPrompt, "correctTranslation") {
		content = buildMockEvaluationJSON()
	} else {
		s := mockSentences[n%len(mockSentences)]
		content = fmt.Sprintf(
			`{"japaneseSentence":%q,"modelAnswer":%q,"hints":[%q,"主語を忘れずに"]}`,
			s.japanese, s.answer, s.hint)
	}

	return &LLMResponse{
		Content:      content,
		PromptTokens: 400,
		OutputTokens: 200,
	}, nil
}

func buildMockEvaluationJSON() string {
	return `{
  "correctTranslation": "I go to school every day.",
  "feedback": "[Mock] 基本的な構文は正しく使えています。この調子で続けましょう。",
  "rating": 4,
  "improvements": ["冠詞の使い方をもう一度確認しましょう"],
  "explanation": "[Mock] 文法:主語と動詞の一致は正確です。語彙:レベルに合った単語選択ができています。自然さ:ネイティブにも自然に聞こえる語順です。文体:この場面に適した丁寧さです。",
  "similarPhrases": ["I walk to school every day.", "I attend school daily."]
}`
}
