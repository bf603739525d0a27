package dto

type TopicRequest struct {
	Token string `json:"token" validate:"required"`
	Topic string `json:"topic" validate:"required,max=100"`
}

type CreateNotificationRequest struct {
	Title string            `json:"title" validate:"required,max=255"`
	Body  string            `json:"body" validate:"required"`
	Topic string            `json:"topic" validate:"required,max=100"`
	Data  map[string]string `json:"data"`
}

type NotificationQuery struct {
	Topic string `query:"topic" validate:"omitempty,max=100"`
}
