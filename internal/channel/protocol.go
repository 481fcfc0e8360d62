package channel

import "encoding/json"

// Типы входящих сообщений воркера.
const (
	TypeStatus          = "status"
	TypeResult          = "result"
	TypeAssistantResult = "assistant_result"
	TypeLLMStatus       = "llm_status"
	TypeError           = "error"
	TypePong            = "pong"
)

// Состояния воркера в сообщении status.
const (
	StateListening    = "listening"
	StateTranscribing = "transcribing"
	StateThinking     = "thinking"
	StateSpeaking     = "speaking"
	StateIdle         = "idle"
)

// Message - входящее сообщение воркера. Одно JSON-сообщение на кадр.
type Message struct {
	Type      string `json:"type"`
	State     string `json:"state,omitempty"`     // status
	Text      string `json:"text,omitempty"`      // result, assistant_result
	Available *bool  `json:"available,omitempty"` // llm_status
	Message   string `json:"message,omitempty"`   // error
}

var knownTypes = map[string]bool{
	TypeStatus:          true,
	TypeResult:          true,
	TypeAssistantResult: true,
	TypeLLMStatus:       true,
	TypeError:           true,
	TypePong:            true,
}

// Decode разбирает кадр. Нечитаемые и неизвестные сообщения
// отбрасываются (ok=false), не влияя на состояние соединения.
func Decode(payload []byte) (Message, bool) {
	var msg Message
	if err := json.Unmarshal(payload, &msg); err != nil {
		return Message{}, false
	}
	if !knownTypes[msg.Type] {
		return Message{}, false
	}
	if msg.Type == TypeLLMStatus && msg.Available == nil {
		return Message{}, false
	}
	return msg, true
}

// command - исходящая команда воркеру.
type command struct {
	Type string `json:"type"`
	Mode string `json:"mode,omitempty"`
}
