package service

import (
	"unicode/utf8"
)

const defaultPasswordMinLength = 6

// passwordPolicyError 携带文案键与参数，errors.Is 可匹配 ErrWeakPassword
type passwordPolicyError struct {
	key  string
	args []interface{}
}

func (e passwordPolicyError) Error() string {
	return e.key
}

func (e passwordPolicyError) Is(target error) bool {
	return target == ErrWeakPassword
}

func (e passwordPolicyError) Key() string {
	return e.key
}

func (e passwordPolicyError) Args() []interface{} {
	return e.args
}

// validatePassword 校验密码长度（按字符计）
func validatePassword(minLength int, password string) error {
	if minLength <= 0 {
		minLength = defaultPasswordMinLength
	}
	if utf8.RuneCountInString(password) < minLength {
		return passwordPolicyError{key: "error.password_too_short", args: []interface{}{minLength}}
	}
	return nil
}
