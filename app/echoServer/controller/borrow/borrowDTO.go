package borrow

type CreateBorrowReq struct {
	BookID     int64  `json:"book_id" validate:"required,gt=0"`
	ReturnDate string `json:"return_date" validate:"omitempty,datetime=2006-01-02"`
}

type ExtendReq struct {
	ReturnDate string `json:"return_date" validate:"required,datetime=2006-01-02"`
}
