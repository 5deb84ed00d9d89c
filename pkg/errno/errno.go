package errno

// Errno defines the error code logic
type Errno struct {
	Code    int
	Message string
}

func (e Errno) Error() string {
	return e.Message
}

// Decode tries to convert an error to Errno
func Decode(err error) (int, string) {
	if err == nil {
		return OK.Code, OK.Message
	}

	switch typed := err.(type) {
	case *Errno:
		return typed.Code, typed.Message
	case Errno:
		return typed.Code, typed.Message
	default:
		return InternalServerError.Code, err.Error()
	}
}

// Common Errors
var (
	OK                  = Errno{Code: 0, Message: "Success"}
	InternalServerError = Errno{Code: 10001, Message: "Internal server error"}
	ErrBind             = Errno{Code: 10002, Message: "Error occurred while binding the request body to the struct"}
	ErrDatabase         = Errno{Code: 10004, Message: "Database error"}
	ErrNotFound         = Errno{Code: 10005, Message: "Record not found"}
	ErrInvalidAddress   = Errno{Code: 10006, Message: "Invalid hex address"}
)

// Settlement Errors (20000+)
// Every state-mutating operation fails with exactly one of these and leaves
// no side effects behind.
var (
	ErrInsufficientPayment   = Errno{Code: 20101, Message: "Attached payment is insufficient"}
	ErrUnauthorized          = Errno{Code: 20102, Message: "Caller does not hold the required role"}
	ErrInvalidState          = Errno{Code: 20103, Message: "Listing is not in the required state"}
	ErrSupplyExhausted       = Errno{Code: 20104, Message: "Supply ceiling reached"}
	ErrConfigurationRejected = Errno{Code: 20105, Message: "Configuration value exceeds allowed ceiling"}
	ErrNotApproved           = Errno{Code: 20106, Message: "Marketplace is not approved as transfer operator"}
	ErrWalletCeilingReached  = Errno{Code: 20107, Message: "Per-wallet mint ceiling reached"}
	ErrMintingDisabled       = Errno{Code: 20108, Message: "Minting is disabled for this collection"}
	ErrMarketPaused          = Errno{Code: 20109, Message: "Marketplace is paused"}
	ErrDuplicateListing      = Errno{Code: 20110, Message: "An active listing already exists for this asset and seller"}
	ErrDuplicateCharacter    = Errno{Code: 20111, Message: "Character id already registered"}
	ErrInvalidQuantity       = Errno{Code: 20112, Message: "Quantity is zero or exceeds the allowed ceiling"}
	ErrInvalidPrice          = Errno{Code: 20113, Message: "Price must be positive"}
	ErrInsufficientBalance   = Errno{Code: 20114, Message: "Caller does not hold enough of the asset"}
	ErrCollectionNotFound    = Errno{Code: 20115, Message: "Collection not found"}
)
