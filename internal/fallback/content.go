package fallback

import (
	"math/rand"
	"strings"
	"sync"

	"github.com/eigo-practice/backend/internal/models"
)

// Provider serves pre-authored practice items and heuristic
// evaluations when the model path fails, so the learner-facing flow
// never stalls. It touches no quota or session state.
type Provider struct {
	mu   sync.Mutex
	rand *rand.Rand
}

func NewProvider() *Provider {
	return &Provider{rand: rand.New(rand.NewSource(rand.Int63()))}
}

// NewProviderWithSeed pins the random source for tests.
func NewProviderWithSeed(seed int64) *Provider {
	return &Provider{rand: rand.New(rand.NewSource(seed))}
}

// Problem returns one pre-authored item for the level, chosen at
// random.
func (p *Provider) Problem(level models.DifficultyLevel) models.PracticeItem {
	pool := pools[level]
	if len(pool) == 0 {
		pool = pools[models.DifficultyMiddleSchool]
	}
	p.mu.Lock()
	item := pool[p.rand.Intn(len(pool))]
	p.mu.Unlock()
	return item
}

// Pool exposes the static items for a level; the pool-selection path
// draws from these through the session used-set.
func Pool(level models.DifficultyLevel) []models.PracticeItem {
	return pools[level]
}

// PoolSentences lists just the Japanese sentences of a level's pool.
func PoolSentences(level models.DifficultyLevel) []string {
	pool := pools[level]
	sentences := make([]string, len(pool))
	for i, item := range pool {
		sentences[i] = item.JapaneseSentence
	}
	return sentences
}

// ItemBySentence finds a pool item by its Japanese sentence.
func ItemBySentence(level models.DifficultyLevel, sentence string) (models.PracticeItem, bool) {
	for _, item := range pools[level] {
		if item.JapaneseSentence == sentence {
			return item, true
		}
	}
	return models.PracticeItem{}, false
}

var genericSimilarPhrases = []string{
	"I see what you mean.",
	"Could you say that again?",
	"Let me think about it.",
}

// Evaluation grades a translation with a simple length heuristic and
// uniformly encouraging feedback. Deliberately lower quality than the
// model path, but never blocking.
func (p *Provider) Evaluation(userTranslation string) models.EvaluationResult {
	words := len(strings.Fields(strings.TrimSpace(userTranslation)))

	rating := 3
	switch {
	case words == 0:
		rating = 1
	case words < 3:
		rating = 2
	case words >= 6:
		rating = 4
	}

	return models.EvaluationResult{
		CorrectTranslation: userTranslation,
		Feedback:           "回答ありがとうございます。今は詳しい添削ができませんが、続けて練習することが上達への一番の近道です。",
		Rating:             rating,
		Improvements:       []string{"文全体の構造(主語+動詞+目的語)を意識してみましょう"},
		Explanation:        "現在、詳細な評価を生成できないため、簡易評価をお返ししています。文の長さと構造から判断すると、伝えたい内容の骨格はできています。文法については主語と動詞の対応を再確認してください。語彙はレベルに合ったものを選べています。引き続き自然な語順を意識して練習しましょう。",
		SimilarPhrases:     append([]string(nil), genericSimilarPhrases[:2]...),
	}
}

// ── Static Pools ───────────────────────────────────────────

// Each level carries at least four pre-authored items. Sentences stay
// inside the level's 8-50 character naturalness range.
var pools = map[models.DifficultyLevel][]models.PracticeItem{
	models.DifficultyTOEIC: {
		{
			JapaneseSentence: "会議は午後3時からに変更になりました。",
			Hints:            []string{"be changed to = 〜に変更になる", "受動態を使う"},
			ModelAnswer:      "The meeting has been changed to 3 p.m.",
		},
		{
			JapaneseSentence: "請求書を今週中にお送りいただけますか。",
			Hints:            []string{"invoice = 請求書", "by the end of this week"},
			ModelAnswer:      "Could you send us the invoice by the end of this week?",
		},
		{
			JapaneseSentence: "新しいコピー機の使い方を教えてください。",
			Hints:            []string{"how to use 〜", "copier / copy machine"},
			ModelAnswer:      "Please show me how to use the new copier.",
		},
		{
			JapaneseSentence: "出張の予定が来月に延期されました。",
			Hints:            []string{"business trip = 出張", "postpone = 延期する"},
			ModelAnswer:      "The business trip has been postponed until next month.",
		},
	},
	models.DifficultyMiddleSchool: {
		{
			JapaneseSentence: "私は毎日学校に行きます。",
			Hints:            []string{"every day = 毎日", "現在形を使う"},
			ModelAnswer:      "I go to school every day.",
		},
		{
			JapaneseSentence: "昨日、公園でサッカーをしました。",
			Hints:            []string{"過去形に注意", "in the park"},
			ModelAnswer:      "I played soccer in the park yesterday.",
		},
		{
			JapaneseSentence: "私の姉は料理が上手です。",
			Hints:            []string{"be good at 〜ing", "older sister = 姉"},
			ModelAnswer:      "My sister is good at cooking.",
		},
		{
			JapaneseSentence: "今日はとても暑いですね。",
			Hints:            []string{"天気は it で始める", "very hot"},
			ModelAnswer:      "It is very hot today.",
		},
		{
			JapaneseSentence: "週末に友達と買い物に行きたいです。",
			Hints:            []string{"want to 〜", "go shopping"},
			ModelAnswer:      "I want to go shopping with my friends on the weekend.",
		},
	},
	models.DifficultyHighSchool: {
		{
			JapaneseSentence: "彼が勧めてくれた本はとても面白かったです。",
			Hints:            []string{"関係代名詞を使う", "recommend = 勧める"},
			ModelAnswer:      "The book he recommended was very interesting.",
		},
		{
			JapaneseSentence: "この問題は私たちが思っていたよりも複雑です。",
			Hints:            []string{"比較級 than we thought", "complicated = 複雑な"},
			ModelAnswer:      "This problem is more complicated than we thought.",
		},
		{
			JapaneseSentence: "もっと早く出発していれば、間に合ったのに。",
			Hints:            []string{"仮定法過去完了", "in time = 間に合って"},
			ModelAnswer:      "If we had left earlier, we would have made it in time.",
		},
		{
			JapaneseSentence: "環境を守るために、私たちにできることはたくさんあります。",
			Hints:            []string{"to protect the environment", "there are many things we can do"},
			ModelAnswer:      "There are many things we can do to protect the environment.",
		},
	},
	models.DifficultyBasicVerbs: {
		{
			JapaneseSentence: "電気を消してもらえますか。",
			Hints:            []string{"turn off を使う", "Could you 〜?"},
			ModelAnswer:      "Could you turn off the light?",
		},
		{
			JapaneseSentence: "駅まで歩いて20分かかります。",
			Hints:            []string{"take を使う", "It takes 〜 to ..."},
			ModelAnswer:      "It takes twenty minutes to walk to the station.",
		},
		{
			JapaneseSentence: "コートを脱いでこちらに掛けてください。",
			Hints:            []string{"take off = 脱ぐ", "put = 掛ける・置く"},
			ModelAnswer:      "Please take off your coat and put it here.",
		},
		{
			JapaneseSentence: "約束は必ず守るようにしています。",
			Hints:            []string{"keep を使う", "keep one's promise"},
			ModelAnswer:      "I try to always keep my promises.",
		},
	},
	models.DifficultyBusinessEmail: {
		{
			JapaneseSentence: "添付ファイルをご確認いただけますでしょうか。",
			Hints:            []string{"attached file = 添付ファイル", "Could you please 〜?"},
			ModelAnswer:      "Could you please check the attached file?",
		},
		{
			JapaneseSentence: "ご返信をお待ちしております。",
			Hints:            []string{"look forward to 〜ing", "reply = 返信"},
			ModelAnswer:      "I look forward to your reply.",
		},
		{
			JapaneseSentence: "お手数をおかけして申し訳ございません。",
			Hints:            []string{"apologize for 〜", "inconvenience = 手数・不便"},
			ModelAnswer:      "I apologize for the inconvenience.",
		},
		{
			JapaneseSentence: "来週の打ち合わせの日程をご相談させてください。",
			Hints:            []string{"discuss the schedule", "next week's meeting"},
			ModelAnswer:      "I would like to discuss the schedule for next week's meeting.",
		},
	},
	models.DifficultySimulation: {
		{
			JapaneseSentence: "窓側の席をお願いできますか。",
			Hints:            []string{"window seat", "Could I have 〜?"},
			ModelAnswer:      "Could I have a window seat, please?",
		},
		{
			JapaneseSentence: "この近くに薬局はありますか。",
			Hints:            []string{"pharmacy = 薬局", "near here"},
			ModelAnswer:      "Is there a pharmacy near here?",
		},
		{
			JapaneseSentence: "チェックアウトは何時までですか。",
			Hints:            []string{"check-out time", "By what time 〜?"},
			ModelAnswer:      "What time is check-out?",
		},
		{
			JapaneseSentence: "おすすめの料理はどれですか。",
			Hints:            []string{"What do you recommend?", "dish = 料理"},
			ModelAnswer:      "Which dish do you recommend?",
		},
	},
}
