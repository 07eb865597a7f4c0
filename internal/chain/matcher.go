package chain

import "strings"

// MatchURLPattern 判断请求路径是否命中 URL 模式。
// "*" 命中所有路径；以 "/*" 结尾的模式做前缀匹配，前缀本身或其任意
// 子路径都命中；其余模式要求与路径完全相等。
func MatchURLPattern(pattern, path string) bool {
	if pattern == "*" {
		return true
	}
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		return path == prefix || strings.HasPrefix(path, prefix+"/")
	}
	return pattern == path
}
