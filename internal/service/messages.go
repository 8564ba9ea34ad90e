package service

import "fmt"

// 字段级错误文案，和 binding 层翻译出来的保持一致
const (
	MsgRequired     = "This field is required."
	MsgBlank        = "This field may not be blank."
	MsgNull         = "This field may not be null."
	MsgInvalidInt   = "A valid integer is required."
	MsgInvalidImage = "Upload a valid image. The file you uploaded was either not an image or a corrupted image."
	MsgNoFile       = "No file was submitted."
	MsgEmptyFile    = "The submitted file is empty."
)

func msgMaxLen(n int) string { return fmt.Sprintf("Ensure this field has no more than %d characters.", n) }

func msgMinLen(n int) string { return fmt.Sprintf("Ensure this field has at least %d characters.", n) }

func msgInvalidPK(id uint) string { return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id) }

// MaxNameLen 与 gorm size:255 对应
const MaxNameLen = 255
