package transport

import "tentquote_backend/internal/enquiries/domain"

type ListEnquiriesRequest struct {
	Search    string `form:"search" validate:"max=100"`
	Status    string `form:"status" validate:"omitempty,oneof=new in_discussion quote_sent confirmed cancelled"`
	EventType string `form:"event_type" validate:"max=100"`
	Window    string `form:"window" validate:"omitempty,oneof=upcoming past this_month next_month"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

type EnquiryListResponse struct {
	Items      []domain.Enquiry `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"page_size"`
	TotalPages int              `json:"total_pages"`
}

type SetStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new in_discussion quote_sent confirmed cancelled"`
}

// StatusesResponse describes the workflow to the back-office UI.
type StatusesResponse struct {
	Statuses    []domain.Status                   `json:"statuses"`
	Policy      string                            `json:"policy"`
	Transitions map[domain.Status][]domain.Status `json:"transitions"`
}
