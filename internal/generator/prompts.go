package generator

import (
	"fmt"
	"strings"

	"github.com/eigo-practice/backend/internal/models"
)

// levelSpec pins down what a difficulty level means for the generation
// model: scope, exclusions, sentence length, topic domain, and one or
// two worked examples at exactly that level.
type levelSpec struct {
	Scope         string
	Forbidden     string
	MinChars      int
	MaxChars      int
	Domain        string
	WorkedExample string
}

var levelSpecs = map[models.DifficultyLevel]levelSpec{
	models.DifficultyTOEIC: {
		Scope: `- Vocabulary: TOEIC 600-800 range — office, scheduling, travel, invoices, announcements
- Grammar: relative clauses, passive voice, conditionals, gerunds/infinitives`,
		Forbidden: `- Academic or literary vocabulary beyond the TOEIC word lists
- Slang and casual contractions`,
		MinChars: 15,
		MaxChars: 40,
		Domain:   "workplace and business travel situations of the kind TOEIC Part 5-7 covers",
		WorkedExample: `例1: 「会議の資料は明日までに準備しておきます。」→ "I will have the meeting materials ready by tomorrow."
例2: 「新しいプリンターの使い方をご存知ですか。」→ "Do you know how to use the new printer?"`,
	},
	models.DifficultyMiddleSchool: {
		Scope: `- Vocabulary: roughly the 1200 words covered by Japanese middle school textbooks
- Grammar: present/past/future tense, simple questions and negations, can/must/want to, basic comparatives`,
		Forbidden: `- Relative clauses, perfect tenses, passive voice
- Any vocabulary a second-year middle school student would not have seen`,
		MinChars: 8,
		MaxChars: 25,
		Domain:   "daily life: school, family, friends, hobbies, weather",
		WorkedExample: `例1: 「私は毎日学校に行きます。」→ "I go to school every day."
例2: 「昨日はとても寒かったです。」→ "It was very cold yesterday."`,
	},
	models.DifficultyHighSchool: {
		Scope: `- Vocabulary: Japanese high school textbook range (roughly 3000 words)
- Grammar: relative clauses, perfect tenses, passive voice, subjunctive, participial constructions`,
		Forbidden: `- Specialized technical or business jargon
- Idioms that require cultural context to interpret`,
		MinChars: 15,
		MaxChars: 45,
		Domain:   "school life, society, environment, culture, light current events",
		WorkedExample: `例1: 「彼が書いた本は多くの国で読まれています。」→ "The book he wrote is read in many countries."
例2: 「もし時間があれば、美術館に行きたいです。」→ "If I had time, I would like to go to the art museum."`,
	},
	models.DifficultyBasicVerbs: {
		Scope: `- Build each sentence around ONE basic English verb: get, take, make, have, go, come, put, give, keep, turn
- Grammar: simple everyday sentence patterns that highlight the verb's core meaning`,
		Forbidden: `- Rare verbs or verbs outside the basic-verb target list
- Sentences where the natural translation avoids the target verb`,
		MinChars: 8,
		MaxChars: 25,
		Domain:   "everyday actions where basic verbs carry the meaning",
		WorkedExample: `例1: 「電気を消してください。」→ "Please turn off the light."
例2: 「駅まで30分かかります。」→ "It takes thirty minutes to get to the station."`,
	},
	models.DifficultyBusinessEmail: {
		Scope: `- Vocabulary: business correspondence — requests, confirmations, apologies, deadlines, attachments
- Grammar: polite request forms (Could you / I would appreciate), formal register`,
		Forbidden: `- Casual spoken English (gonna, wanna, Hey)
- Overly literary or bureaucratic vocabulary`,
		MinChars: 15,
		MaxChars: 50,
		Domain:   "sentences that would appear in a business email between companies",
		WorkedExample: `例1: 「添付ファイルをご確認いただけますか。」→ "Could you please check the attached file?"
例2: 「ご返信が遅くなり申し訳ございません。」→ "I apologize for the late reply."`,
	},
	models.DifficultySimulation: {
		Scope: `- Vocabulary: travel and daily-life situations — restaurants, hotels, shopping, directions, small talk
- Grammar: natural spoken patterns, polite requests, question forms`,
		Forbidden: `- Written-register formality that would sound stiff when spoken
- Vocabulary beyond everyday conversation`,
		MinChars: 8,
		MaxChars: 35,
		Domain:   "things a traveler or resident would actually say out loud",
		WorkedExample: `例1: 「窓側の席をお願いできますか。」→ "Could I have a window seat, please?"
例2: 「この近くにおすすめのレストランはありますか。」→ "Is there a restaurant you would recommend near here?"`,
	},
}

func GenerationSystemPrompt() string {
	return `You are a Japanese English-language teacher with 20 years of classroom experience writing translation drill sentences. You write natural Japanese sentences calibrated precisely to a stated learner level.

SENTENCE RULES:
- Write exactly ONE Japanese sentence per request
- The sentence must sound like something a real person would say or write — never textbook-stilted
- It must be translatable into English using only the vocabulary and grammar of the stated level
- Stay inside the stated character-length range (Japanese characters, punctuation included)
- Vary topics across requests — do not fixate on one situation

HINTS:
- Provide 1-3 short hints in Japanese pointing at the tricky vocabulary or grammar
- Hints name the construction ("受動態を使う") or give a key word pairing ("〜までに = by")
- Never give away the full translation in a hint

MODEL ANSWER:
- Provide one natural English translation a native speaker would produce

You must respond with valid JSON only. No markdown, no explanation outside the JSON.`
}

func EvaluationSystemPrompt() string {
	return `You are an experienced and encouraging Japanese English-language teacher grading a learner's English translation of a Japanese sentence.

GRADING RUBRIC (1-5):
- 5: Natural, accurate, appropriate register — a native speaker could have written it
- 4: Accurate with minor unnaturalness or a small grammar slip
- 3: Meaning conveyed adequately; noticeable grammar or word-choice issues
- 2: Meaning partially conveyed; significant errors
- 1: Meaning not conveyed
Bias toward encouragement: a 3 is merely adequate, not a punishment. Credit every correct decision the learner made.

FEEDBACK LANGUAGE:
- Write ALL explanatory fields in Japanese — the learner's native language
- Feedback opens with something the learner did well
- The explanation must run at least four sentences and cover grammar, vocabulary, naturalness, and register
- List concrete improvements, not vague advice
- Provide at least TWO similar English phrases the learner can study

You must respond with valid JSON only. No markdown, no explanation outside the JSON.`
}

// BuildGenerationPrompt produces the user prompt for one practice
// sentence at the given level. recent sentences are listed so the model
// avoids repeating their structure or vocabulary.
func BuildGenerationPrompt(level models.DifficultyLevel, recent []string) string {
	spec := levelSpecs[level]

	var avoid string
	if len(recent) > 0 {
		var b strings.Builder
		b.WriteString("\nAlready served this session — do NOT reproduce the structure or vocabulary of these sentences:\n")
		for _, s := range recent {
			fmt.Fprintf(&b, "- %s\n", s)
		}
		avoid = b.String()
	}

	return fmt.Sprintf(`Generate exactly 1 Japanese sentence for translation practice.

Level: %s
Topic domain: %s
Sentence length: %d-%d Japanese characters

LEVEL SCOPE:
%s

FORBIDDEN AT THIS LEVEL:
%s

Worked examples at this level:
%s
%s
Respond with this exact JSON structure:
{
  "japaneseSentence": "...",
  "modelAnswer": "...",
  "hints": ["...", "..."]
}`,
		models.DifficultyDisplayName(level), spec.Domain, spec.MinChars, spec.MaxChars,
		spec.Scope, spec.Forbidden, spec.WorkedExample, avoid)
}

// BuildEvaluationPrompt produces the user prompt for grading a
// submitted translation.
func BuildEvaluationPrompt(japaneseSentence, userTranslation string, level models.DifficultyLevel) string {
	return fmt.Sprintf(`Grade this translation by a %s learner.

Japanese sentence: %s
Learner's translation: %s

Respond with this exact JSON structure:
{
  "correctTranslation": "...",
  "feedback": "... (in Japanese, opening with praise)",
  "rating": 3,
  "improvements": ["... (in Japanese)"],
  "explanation": "... (in Japanese, at least 4 sentences covering grammar, vocabulary, naturalness, register)",
  "similarPhrases": ["...", "..."]
}

Requirements:
- rating is an integer from 1 to 5 per the rubric
- similarPhrases must contain at least 2 English phrases
- every explanatory field is written in Japanese`,
		models.DifficultyDisplayName(level), japaneseSentence, userTranslation)
}

// GetLevelCharRange reports the sentence-length bounds for a level.
func GetLevelCharRange(level models.DifficultyLevel) (int, int) {
	spec := levelSpecs[level]
	return spec.MinChars, spec.MaxChars
}

// GetLevelScope returns the vocabulary/grammar scope text for a level.
func GetLevelScope(level models.DifficultyLevel) string {
	return levelSpecs[level].Scope
}
