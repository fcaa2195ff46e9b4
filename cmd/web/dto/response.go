package dto

// ErrorResponseDTO는 공통 에러 응답 형식을 통일하기 위한 DTO이다.
// Error 는 기계용 코드, Message 는 화면에 그대로 보여줄 문장이다.
type ErrorResponseDTO struct {
	Error   string `json:"error" example:"not_found"`
	Message string `json:"message" example:"PDF not found"`
}

// DeleteResponseDTO 는 삭제 결과다. 요청에 page 가 있으면 다시 조회한 목록을 List 에 담는다.
type DeleteResponseDTO[T any] struct {
	Message      string `json:"message" example:"PDF deleted successfully"`
	DeletedCount int64  `json:"deleted_count,omitempty" example:"2"`
	List         *T     `json:"list,omitempty"`
}

// NoticeResponseDTO 는 작업 결과 알림을 함께 돌려주는 응답이다.
type NoticeResponseDTO[T any] struct {
	Data   T         `json:"data"`
	Notice NoticeDTO `json:"notice"`
}

type NoticeDTO struct {
	Level   string `json:"level" example:"success"`
	Message string `json:"message" example:"File uploaded successfully!"`
}
