package ecdsa

import "errors"

var (
	ErrUnknownHash          = errors.New("unknown hash function")
	ErrNotShortCurve        = errors.New("ECDSA needs a short Weierstrass curve with a known order")
	ErrInvalidDER           = errors.New("invalid DER signature")
	ErrInvalidCompact       = errors.New("invalid compact signature")
	ErrInvalidRecoveryParam = errors.New("invalid recovery parameter")
	ErrNoSecondKey          = errors.New("unable to find second key candidate")
	ErrNoRecoveryParam      = errors.New("unable to find valid recovery factor")
	ErrInvalidPublicKey     = errors.New("invalid public key")
	ErrNoPrivateKey         = errors.New("key pair has no private key")
	ErrNegativeMessage      = errors.New("message must not be negative")
	ErrInvalidSignature     = errors.New("invalid signature")
)
