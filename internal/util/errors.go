package util

import "errors"

var (
	ErrUserNotFound    = errors.New("用户不存在")
	ErrEmailRegistered = errors.New("该邮箱已被注册")

	// 选题
	ErrQuestionPoolEmpty = errors.New("no eligible questions available")
	ErrQuestionNotFound  = errors.New("question not found")

	// 每日题组
	ErrSetNotFound         = errors.New("daily set not found")
	ErrSetLocked           = errors.New("daily set locked by weekly cooldown")
	ErrSetAlreadyPublished = errors.New("a daily set already exists for this date")
	ErrSetAlreadySubmitted = errors.New("daily set already submitted")
	ErrQuestionNotInSet    = errors.New("question does not belong to this daily set")

	// 合集会话
	ErrSessionNotFound      = errors.New("quiz session not found or expired")
	ErrSessionOwnership     = errors.New("quiz session belongs to another user")
	ErrQuestionNotInSession = errors.New("question does not belong to this session")
	ErrCollectionNotFound   = errors.New("collection not found")

	ErrEmptySubmission = errors.New("submission contains no answers")
)
