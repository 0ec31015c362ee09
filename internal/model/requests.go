package model

type CreateBookRequest struct {
	Title       string  `json:"title" validate:"required"`
	Author      string  `json:"author" validate:"required"`
	Publisher   string  `json:"publisher"`
	Genre       string  `json:"genre"`
	ISBN        string  `json:"isbnNo" validate:"required"`
	NumOfPages  int     `json:"numOfPages" validate:"gte=0"`
	TotalCopies int     `json:"totalCopies" validate:"required,gt=0"`
	ImageURL    string  `json:"imageUrl"`
	Price       float64 `json:"price" validate:"gte=0"`
}

type UpdateBookRequest struct {
	Title       *string  `json:"title"`
	Author      *string  `json:"author"`
	Publisher   *string  `json:"publisher"`
	Genre       *string  `json:"genre"`
	NumOfPages  *int     `json:"numOfPages" validate:"omitempty,gte=0"`
	TotalCopies *int     `json:"totalCopies" validate:"omitempty,gt=0"`
	ImageURL    *string  `json:"imageUrl"`
	Price       *float64 `json:"price" validate:"omitempty,gte=0"`
}

type SignupRequest struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	PhoneNumber    string `json:"phoneNumber"`
	PasswordHash   string `json:"passwordHash"`
	ExternalAuthID string `json:"externalAuthId"`
}

type LoanRequest struct {
	BookID   int `json:"bookId" validate:"required,gt=0"`
	MemberID int `json:"memberId" validate:"required,gt=0"`
}

type RatingRequest struct {
	Stars  int    `json:"rating" validate:"required,min=1,max=5"`
	Review string `json:"review"`
}

type WishlistRequest struct {
	BookID int `json:"bookId" validate:"required,gt=0"`
}

type PaymentRequest struct {
	OrderID     string  `json:"orderId" validate:"required"`
	ProfessorID int     `json:"professorId" validate:"required,gt=0"`
	MemberID    int     `json:"userId" validate:"required,gt=0"`
	Amount      float64 `json:"amount" validate:"gte=0"`
	Status      string  `json:"status" validate:"required"`
	PaymentID   string  `json:"paymentId"`
}

// PaymentMsg is the payment-gateway relay message consumed from Kafka.
// Replays are expected; inserts are idempotent by orderId.
type PaymentMsg struct {
	OrderID     string  `json:"orderId"`
	ProfessorID int     `json:"professorId"`
	MemberID    int     `json:"userId"`
	Amount      float64 `json:"amount"`
	Status      string  `json:"status"`
	PaymentID   string  `json:"paymentId"`
}

// LoanEvent is published to the loan-events topic on every lifecycle transition.
type LoanEvent struct {
	LoanUID   string     `json:"loanUid"`
	BookID    int        `json:"bookId"`
	MemberID  int        `json:"memberId"`
	EventType string     `json:"eventType"`
	Status    LoanStatus `json:"status"`
}
