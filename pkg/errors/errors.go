package errors

import (
	"encoding/json"
	"fmt"

	log "github.com/sirupsen/logrus"
	grpccodes "google.golang.org/grpc/codes"
)

// Code is the type representing a namespace error code.
type Code[MT any] struct {
	Code     uint16
	Name     string
	GrpcCode grpccodes.Code
}

// New creates a new error with the given code and the message
func (c Code[MT]) New(msg string, args ...any) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: fmt.Errorf(msg, args...),
	}
}

// Wrap creates a new Error with the given code and the cause error
func (c Code[MT]) Wrap(cause error) TypedError[MT] {
	return &ErrorImpl[MT]{
		code:  c,
		cause: cause,
	}
}

func (c Code[MT]) String() string {
	return fmt.Sprintf("%s (%d)", c.Name, c.Code)
}

type Error interface {
	error
	Log() *log.Entry
	Code() uint16
	CodeName() string
	GrpcCode() grpccodes.Code
	Metadata() map[string]string
}

type TypedError[MT any] interface {
	Error
	WithMetadata(MT) TypedError[MT]
}

// ErrorImpl is the default concrete implementation of TypedError.
type ErrorImpl[MT any] struct {
	code     Code[MT]
	cause    error
	metadata MT
}

func (e *ErrorImpl[MT]) Log() *log.Entry {
	return log.WithField("name", e.code.Name).
		WithField("code", e.code.Code).
		WithField("metadata", e.metadata)
}

func (e *ErrorImpl[MT]) Metadata() map[string]string {
	// convert any metadata to map[string]string
	metadata := make(map[string]string)
	buf, err := json.Marshal(e.metadata)
	if err == nil {
		var genericMap map[string]any
		if err := json.Unmarshal(buf, &genericMap); err == nil {
			for k, v := range genericMap {
				vStr := ""
				if v != nil {
					vStr = fmt.Sprintf("%v", v)
				}
				metadata[k] = vStr
			}
		}
	}
	return metadata
}

func (e *ErrorImpl[MT]) GrpcCode() grpccodes.Code {
	return e.code.GrpcCode
}

func (e *ErrorImpl[MT]) Code() uint16 {
	return e.code.Code
}

func (e *ErrorImpl[MT]) CodeName() string {
	return e.code.Name
}

// Error() implements the error interface.
func (e *ErrorImpl[MT]) Error() string {
	return fmt.Sprintf("%s: %s", e.code.String(), e.cause.Error())
}

func (e *ErrorImpl[MT]) WithMetadata(metadata MT) TypedError[MT] {
	e.metadata = metadata
	return e
}

type KeyMetadata struct {
	Key string `json:"key"`
}

type OwnerMetadata struct {
	Owner   string `json:"owner"`
	AssetID string `json:"asset_id"`
}

type HoldingMetadata struct {
	Holding string `json:"holding"`
	AssetID string `json:"asset_id"`
}

type PriceConfigMetadata struct {
	PriceType  string `json:"price_type"`
	StartPrice uint64 `json:"start_price"`
	MinPrice   uint64 `json:"min_price"`
	Duration   int64  `json:"duration"`
}

type WindowMetadata struct {
	ValidFrom  int64 `json:"valid_from"`
	ValidUntil int64 `json:"valid_until"`
}

type PurchasableMetadata struct {
	Key        string `json:"key"`
	Now        int64  `json:"now"`
	ValidFrom  int64  `json:"valid_from"`
	ValidUntil int64  `json:"valid_until"`
}

type FundsMetadata struct {
	Required  uint64 `json:"required"`
	Available uint64 `json:"available"`
}

type FeeMetadata struct {
	FeeRateBps uint64 `json:"fee_rate_bps"`
	MaxFeeBps  uint64 `json:"max_fee_bps"`
}

type AttestationMetadata struct {
	Attestor string `json:"attestor"`
	Nonce    uint64 `json:"nonce"`
}

type FloorMetadata struct {
	Floor    uint64 `json:"floor"`
	MinPrice uint64 `json:"min_price"`
}

var INTERNAL_ERROR = Code[map[string]any]{0, "INTERNAL_ERROR", grpccodes.Internal}
var ALREADY_EXISTS = Code[KeyMetadata]{1, "ALREADY_EXISTS", grpccodes.AlreadyExists}
var NOT_FOUND = Code[KeyMetadata]{2, "NOT_FOUND", grpccodes.NotFound}

var NOT_INITIALIZED = Code[any]{
	3,
	"NOT_INITIALIZED",
	grpccodes.FailedPrecondition,
}

var UNAUTHORIZED = Code[OwnerMetadata]{4, "UNAUTHORIZED", grpccodes.PermissionDenied}

var VAULT_HAS_ACTIVE_LISTING = Code[KeyMetadata]{
	5,
	"VAULT_HAS_ACTIVE_LISTING",
	grpccodes.FailedPrecondition,
}

var INVALID_PRICE_CONFIG = Code[PriceConfigMetadata]{
	6,
	"INVALID_PRICE_CONFIG",
	grpccodes.InvalidArgument,
}
var INVALID_WINDOW = Code[WindowMetadata]{7, "INVALID_WINDOW", grpccodes.InvalidArgument}

var LISTING_NOT_PURCHASABLE = Code[PurchasableMetadata]{
	8,
	"LISTING_NOT_PURCHASABLE",
	grpccodes.FailedPrecondition,
}

var INSUFFICIENT_ASSET = Code[HoldingMetadata]{
	9,
	"INSUFFICIENT_ASSET",
	grpccodes.FailedPrecondition,
}

var INSUFFICIENT_FUNDS = Code[FundsMetadata]{
	10,
	"INSUFFICIENT_FUNDS",
	grpccodes.FailedPrecondition,
}
var FEE_TOO_HIGH = Code[FeeMetadata]{11, "FEE_TOO_HIGH", grpccodes.InvalidArgument}

var ATTESTATION_EXPIRED = Code[AttestationMetadata]{
	12,
	"ATTESTATION_EXPIRED",
	grpccodes.FailedPrecondition,
}
var ATTESTATION_USED = Code[AttestationMetadata]{
	13,
	"ATTESTATION_USED",
	grpccodes.FailedPrecondition,
}
var FLOOR_TOO_HIGH = Code[FloorMetadata]{14, "FLOOR_TOO_HIGH", grpccodes.FailedPrecondition}
