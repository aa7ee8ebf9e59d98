package lendingrepo

import (
	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
)

const defaultPageSize = 50

var pg = goqu.Dialect("postgres")

func columns(names ...string) []any {
	out := make([]any, len(names))
	for i, n := range names {
		out[i] = goqu.C(n)
	}
	return out
}

var (
	bookCols = columns("id", "name", "author", "short_description", "category_id",
		"total_copies", "available_copies", "average_rating", "rating_count", "created_at")
	borrowCols = columns("id", "user_id", "book_id", "borrowed_at", "return_date", "status",
		"returned_at", "extension_count", "created_at")
	bookingCols  = columns("id", "user_id", "book_id", "borrow_id", "booking_date", "expiry_date", "status", "created_at")
	donationCols = columns("id", "user_id", "book_id", "book_title", "number_of_copies", "status", "created_at")
)

func page(ds *goqu.SelectDataset, limit, offset int) *goqu.SelectDataset {
	if limit <= 0 {
		limit = defaultPageSize
	}
	ds = ds.Limit(uint(limit))
	if offset > 0 {
		ds = ds.Offset(uint(offset))
	}
	return ds
}

func statusIn[S ~string](statuses []S) exp.BooleanExpression {
	vals := make([]any, len(statuses))
	for i, s := range statuses {
		vals[i] = string(s)
	}
	return goqu.C("status").In(vals...)
}

func listBooksQuery(limit, offset int) (string, []any, error) {
	ds := pg.From("books").Select(bookCols...).Order(goqu.C("id").Desc())
	return page(ds, limit, offset).Prepared(true).ToSQL()
}

func listBorrowsQuery(f BorrowFilter) (string, []any, error) {
	ds := pg.From("borrows").Select(borrowCols...)
	if f.UserID != nil {
		ds = ds.Where(goqu.C("user_id").Eq(*f.UserID))
	}
	if f.BookID != nil {
		ds = ds.Where(goqu.C("book_id").Eq(*f.BookID))
	}
	if len(f.Statuses) > 0 {
		ds = ds.Where(statusIn(f.Statuses))
	}
	if f.DueBefore != nil {
		ds = ds.Where(goqu.C("return_date").Lt(*f.DueBefore))
	}
	ds = ds.Order(goqu.C("id").Desc())
	return page(ds, f.Limit, f.Offset).Prepared(true).ToSQL()
}

func listBookingsQuery(f BookingFilter) (string, []any, error) {
	ds := pg.From("bookings").Select(bookingCols...)
	if f.UserID != nil {
		ds = ds.Where(goqu.C("user_id").Eq(*f.UserID))
	}
	if f.BookID != nil {
		ds = ds.Where(goqu.C("book_id").Eq(*f.BookID))
	}
	if len(f.Statuses) > 0 {
		ds = ds.Where(statusIn(f.Statuses))
	}
	ds = ds.Order(goqu.C("id").Desc())
	return page(ds, f.Limit, f.Offset).Prepared(true).ToSQL()
}

func listDonationsQuery(f DonationFilter) (string, []any, error) {
	ds := pg.From("donation_requests").Select(donationCols...)
	if f.UserID != nil {
		ds = ds.Where(goqu.C("user_id").Eq(*f.UserID))
	}
	if len(f.Statuses) > 0 {
		ds = ds.Where(statusIn(f.Statuses))
	}
	ds = ds.Order(goqu.C("id").Desc())
	return page(ds, f.Limit, f.Offset).Prepared(true).ToSQL()
}
