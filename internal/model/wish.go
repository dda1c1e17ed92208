package model

// Значения по умолчанию для необязательных полей пожелания.
const (
	DefaultName     = "Anonymous"
	DefaultLocation = "Unknown"
)

// Wish — одна запись гостевой книги. Формат JSON совпадает с хранимым документом.
type Wish struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`
	Message  string `json:"message"`
	Date     string `json:"date"`

	// Reply и ReplyDate выставляются только вместе
	Reply     string `json:"reply,omitempty"`
	ReplyDate string `json:"replyDate,omitempty"`
}

// HasReply сообщает, ответил ли администратор на пожелание.
func (w Wish) HasReply() bool {
	return w.Reply != ""
}
