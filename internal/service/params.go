package service

import (
	"strconv"
	"strings"

	"go-gin-gallery/internal/domain"
)

// ParseIDList 解析 "1,2,3"；空串表示不过滤，任何一个非法 token 都使整个请求失败
func ParseIDList(field, raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, domain.NewValidationError(field, MsgInvalidInt)
		}
		ids = append(ids, uint(n))
	}
	return ids, nil
}

// ParseFlag 解析 assigned_only 这类整数开关：缺省为 false，非 0 为 true
func ParseFlag(field, raw string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return false, domain.NewValidationError(field, MsgInvalidInt)
	}
	return n != 0, nil
}

// uniqueIDs 去重并保持首次出现的顺序
func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// requiredText 校验必填文本字段；返回去掉首尾空白后的值
func requiredText(ve *domain.ValidationError, field string, v *string, max int) string {
	if v == nil {
		ve.Add(field, MsgRequired)
		return ""
	}
	s := strings.TrimSpace(*v)
	switch {
	case s == "":
		ve.Add(field, MsgBlank)
	case max > 0 && len([]rune(s)) > max:
		ve.Add(field, msgMaxLen(max))
	}
	return s
}
