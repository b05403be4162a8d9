package roomhandler

type RoomCreateResponse struct {
	RoomID string `json:"roomId" example:"7f9db4b1-6f35-4a02-9fa1-3b6c2f1a9d0e"`
} // @name RoomCreateResponse

type RoomInfoResponse struct {
	RoomID   string `json:"room_id"`
	Code     string `json:"code"`
	Language string `json:"language" example:"python"`
} // @name RoomInfoResponse

type ErrorResponse struct {
	Error string `json:"error"`
} // @name ErrorResponse
