package domain

const (
	// Smartbridge constants
	SMARTBRIDGE_MAX_LENGTH = 256 // bytes of the memo, as the chain measures its vendor field
	MAX_DECIMALS           = 8

	// Token id is an md5 digest rendered as hex
	TOKEN_ID_LENGTH = 32

	// Chain constants
	TRANSFER_TX_TYPE = 0
)
