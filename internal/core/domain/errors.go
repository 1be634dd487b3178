package domain

import "errors"

var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidPrompt = errors.New("prompt must be at least 10 characters")
var ErrQuotaExceeded = errors.New("monthly credit quota exceeded")
var ErrJobNotFound = errors.New("job not found")
var ErrJobNotReady = errors.New("job not ready")
var ErrUpstream = errors.New("upstream provider error")
var ErrPlatformNotSupported = errors.New("platform not supported")
