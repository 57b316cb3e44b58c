package password

import "strings"

// symbolSet はパスワードに要求する記号の集合。
const symbolSet = `!@#$%^&*(),.?":{}|<>`

// ValidatePolicy はパスワードがポリシーを満たすか検査し、
// 違反項目のメッセージ一覧を返す。空スライスならポリシー適合。
func ValidatePolicy(plain string) []string {
	var violations []string

	if len(plain) < 8 {
		violations = append(violations, "パスワードは8文字以上である必要があります")
	}

	var hasLower, hasUpper, hasDigit, hasSymbol bool
	for _, r := range plain {
		switch {
		case r >= 'a' && r <= 'z':
			hasLower = true
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(symbolSet, r):
			hasSymbol = true
		}
	}

	if !hasLower {
		violations = append(violations, "小文字を1文字以上含める必要があります")
	}
	if !hasUpper {
		violations = append(violations, "大文字を1文字以上含める必要があります")
	}
	if !hasDigit {
		violations = append(violations, "数字を1文字以上含める必要があります")
	}
	if !hasSymbol {
		violations = append(violations, `記号(!@#$%^&*(),.?":{}|<>)を1文字以上含める必要があります`)
	}

	return violations
}
