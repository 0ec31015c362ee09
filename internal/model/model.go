package model

import (
	"time"
)

type LoanStatus string

const (
	StatusIssued    LoanStatus = "ISSUED"
	StatusReturned  LoanStatus = "RETURNED"
	StatusPending   LoanStatus = "PENDING"
	StatusRejected  LoanStatus = "REJECTED"
	StatusCancelled LoanStatus = "CANCELLED"
)

type Book struct {
	ID              int     `json:"id" db:"id"`
	Title           string  `json:"title" db:"title"`
	Author          string  `json:"author" db:"author"`
	Publisher       string  `json:"publisher" db:"publisher"`
	Genre           string  `json:"genre" db:"genre"`
	ISBN            string  `json:"isbnNo" db:"isbn_no"`
	NumOfPages      int     `json:"numOfPages" db:"num_of_pages"`
	TotalCopies     int     `json:"totalCopies" db:"total_copies"`
	AvailableCopies int     `json:"availableCopies" db:"available_copies"`
	ImageURL        string  `json:"imageUrl" db:"image_url"`
	Price           float64 `json:"price" db:"price"`
	Rating          float64 `json:"rating" db:"rating"`
}

type Member struct {
	ID             int    `json:"id" db:"id"`
	FirstName      string `json:"firstName" db:"first_name"`
	LastName       string `json:"lastName" db:"last_name"`
	Email          string `json:"email" db:"email"`
	PhoneNumber    string `json:"phoneNumber" db:"phone_number"`
	PasswordHash   string `json:"-" db:"password_hash"`
	Role           string `json:"role" db:"role"`
	ExternalAuthID string `json:"-" db:"external_auth_id"`
}

type Loan struct {
	ID         int        `json:"id" db:"id"`
	LoanUID    string     `json:"loanUid" db:"loan_uid"`
	BookID     int        `json:"bookId" db:"book_id"`
	MemberID   int        `json:"memberId" db:"member_id"`
	IssueDate  time.Time  `json:"issueDate" db:"issue_date"`
	DueDate    time.Time  `json:"dueDate" db:"due_date"`
	ReturnDate *time.Time `json:"returnDate" db:"return_date"`
	Status     LoanStatus `json:"status" db:"status"`
}

type WishlistEntry struct {
	ID       int `json:"id" db:"id"`
	BookID   int `json:"bookId" db:"book_id"`
	MemberID int `json:"memberId" db:"member_id"`
}

type Rating struct {
	ID        int       `json:"id" db:"id"`
	BookID    int       `json:"bookId" db:"book_id"`
	MemberID  int       `json:"memberId" db:"member_id"`
	Stars     int       `json:"rating" db:"stars"`
	Review    string    `json:"review" db:"review"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type Payment struct {
	ID          int       `json:"id" db:"id"`
	OrderID     string    `json:"orderId" db:"order_id"`
	ProfessorID int       `json:"professorId" db:"professor_id"`
	MemberID    int       `json:"userId" db:"member_id"`
	Amount      float64   `json:"amount" db:"amount"`
	Status      string    `json:"status" db:"status"`
	PaymentID   string    `json:"paymentId" db:"payment_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

// ListParams is the uniform listing contract: offset/limit paging, optional
// case-insensitive substring search, and a sort field resolved against a
// per-entity whitelist. An unknown SortBy falls back to the entity default
// instead of erroring.
type ListParams struct {
	Offset  int
	Limit   int
	Search  string
	SortBy  string
	SortDir string
}

type Paging struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
	Total  int `json:"total"`
}

type ListBooks struct {
	Paging `json:"pagination"`
	Items  []Book `json:"items"`
}

type ListMembers struct {
	Paging `json:"pagination"`
	Items  []Member `json:"items"`
}

type ListLoans struct {
	Paging `json:"pagination"`
	Items  []Loan `json:"items"`
}

type ListPayments struct {
	Paging `json:"pagination"`
	Items  []Payment `json:"items"`
}
