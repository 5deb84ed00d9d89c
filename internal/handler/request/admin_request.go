package request

import "github.com/shopspring/decimal"

type SetFeeRateRequest struct {
	Caller string `json:"caller" binding:"required"`
	Bps    int64  `json:"bps"`
}

type SetPausedRequest struct {
	Caller string `json:"caller" binding:"required"`
	Paused bool   `json:"paused"`
}

type SetRoyaltiesDisabledRequest struct {
	Caller   string `json:"caller" binding:"required"`
	Disabled bool   `json:"disabled"`
}

type SetCreationFeeRequest struct {
	Caller string          `json:"caller" binding:"required"`
	Fee    decimal.Decimal `json:"fee"`
}

type SetFeeRecipientRequest struct {
	Caller    string `json:"caller" binding:"required"`
	Recipient string `json:"recipient" binding:"required"`
}

type SetTrustedCreatorRequest struct {
	Caller      string `json:"caller" binding:"required"`
	Creator     string `json:"creator" binding:"required"`
	DiscountBps int64  `json:"discount_bps"`
}

type HandshakeInstallRequest struct {
	Caller   string `json:"caller" binding:"required"`
	NewLogic string `json:"new_logic" binding:"required"`
}

type HandshakeReleaseRequest struct {
	Caller string `json:"caller" binding:"required"`
}

type WithdrawFeesRequest struct {
	Caller string `json:"caller" binding:"required"`
}
