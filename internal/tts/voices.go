package tts

// Voice describes one synthesis voice.
type Voice struct {
	ID     string
	Gender string
	Desc   string
}

// DefaultVoice is the natural female Korean voice.
const DefaultVoice = "ko-KR-SunHiNeural"

// KoreanVoices is the supported Korean voice catalog.
var KoreanVoices = []Voice{
	{ID: "ko-KR-SunHiNeural", Gender: "Female", Desc: "natural female voice (default)"},
	{ID: "ko-KR-InJoonNeural", Gender: "Male", Desc: "calm male voice"},
}

// IsKnownVoice reports whether id is in the catalog.
func IsKnownVoice(id string) bool {
	for _, v := range KoreanVoices {
		if v.ID == id {
			return true
		}
	}
	return false
}
