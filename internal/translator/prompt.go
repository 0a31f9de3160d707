package translator

import "strings"

// Style selects how closely the translation follows the source text.
type Style string

const (
	// StyleFaithful keeps the source structure and wording.
	StyleFaithful Style = "faithful"
	// StyleNatural rewrites into a natural dubbing script.
	StyleNatural Style = "natural"
)

// Tone selects the register of the dubbing script. Only the natural style
// carries tone variants.
type Tone string

const (
	ToneLecture Tone = "lecture"
	ToneCasual  Tone = "casual"
	ToneFormal  Tone = "formal"
)

const faithfulBase = `당신은 전문 번역가입니다. YouTube 자동 자막을 정제하고 {target_lang}로 번역합니다.

## 1단계: 자동 자막 정제 (번역 전 처리)
YouTube 자동 자막은 다음 문제가 있습니다:
- 같은 문장이 여러 번 반복됨 (중복 제거 필요)
- 문장이 중간에 끊겨서 다음 줄에 이어짐 (병합 필요)
- 필러: um, uh, you know, like, basically, actually 등 (제거)
- 철자 오류, 반복 단어 (I I → I)

반드시 중복을 제거하고 완전한 문장으로 재구성하세요.

## 2단계: 번역 (원문 충실 모드)
1. 원문의 의미와 구조를 최대한 유지
2. 전문 용어는 정확하게 번역
3. 구어체로 자연스럽게 변환 (TTS용)
4. 번역문만 출력 (설명/원문 없이)`

const naturalBase = `당신은 더빙 전문 번역가입니다. YouTube 자동 자막을 정제하고 자연스러운 {target_lang} 더빙 스크립트로 변환합니다.

## 1단계: 자동 자막 정제 (번역 전 처리)
YouTube 자동 자막은 다음 문제가 있습니다:
- 같은 문장이 여러 번 반복됨 (중복 제거 필요)
- 문장이 중간에 끊겨서 다음 줄에 이어짐 (병합 필요)
- 필러: um, uh, you know, like, basically, actually 등 (제거)
- 철자 오류, 반복 단어 (I I → I)

반드시 중복을 제거하고 완전한 문장으로 재구성하세요.

## 2단계: 번역 (자연스러운 더빙 모드)
1. 한국어 화자가 말하듯이 자연스럽게 변환
2. 문장 구조를 한국어에 맞게 재배치
3. 불필요한 수식어 제거, 핵심만 전달
4. 이전 문맥을 고려한 연결어 사용
5. 번역문만 출력 (설명/원문 없이)`

var naturalTones = map[Tone]string{
	ToneLecture: `
## 톤: 강의체
- 존댓말 사용 (~입니다, ~해요, ~거든요)
- 청자를 배려하는 표현 (여러분, ~해볼게요)
- 설명적이고 친근한 어조`,
	ToneCasual: `
## 톤: 대화체
- 반말 또는 친근한 존댓말 (~야, ~거든, ~잖아)
- 감탄사/추임새 자연스럽게 사용
- 일상 대화처럼 가볍게`,
	ToneFormal: `
## 톤: 뉴스체
- 격식체 존댓말 (~습니다, ~됩니다)
- 객관적이고 정제된 표현
- 간결하고 명확한 문장`,
}

// SystemPrompt builds the system prompt for a style and tone preset. Unknown
// styles fall back to natural; unknown tones fall back to lecture.
func SystemPrompt(style Style, tone Tone, sourceLang, targetLang string) string {
	if sourceLang == "" {
		sourceLang = "영어"
	}
	if targetLang == "" {
		targetLang = "한국어"
	}

	base := naturalBase
	withTone := true
	if style == StyleFaithful {
		base = faithfulBase
		withTone = false
	}

	prompt := strings.ReplaceAll(base, "{target_lang}", targetLang)
	prompt = strings.ReplaceAll(prompt, "{source_lang}", sourceLang)

	if withTone {
		toneBlock, ok := naturalTones[tone]
		if !ok {
			toneBlock = naturalTones[ToneLecture]
		}
		prompt += toneBlock
	}

	return prompt
}
