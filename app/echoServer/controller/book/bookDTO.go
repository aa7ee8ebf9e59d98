package book

type CreateBookReq struct {
	Name             string  `json:"name" validate:"required,max=255"`
	Author           string  `json:"author" validate:"required,max=255"`
	ShortDescription *string `json:"short_description" validate:"omitempty,max=1000"`
	CategoryID       *int64  `json:"category_id" validate:"omitempty,gt=0"`
	TotalCopies      int64   `json:"total_copies" validate:"required,gt=0"`
}

type ResizeReq struct {
	TotalCopies *int64 `json:"total_copies" validate:"required,gte=0"`
}
