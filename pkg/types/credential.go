package types

// Credential 是认证步骤获取的不透明令牌，获取后不再修改，所有 worker 只读共享。
type Credential string

// String 返回令牌原文。
func (c Credential) String() string {
	return string(c)
}

// BearerHeader 返回 Authorization 头的取值。
func (c Credential) BearerHeader() string {
	return "Bearer " + string(c)
}

// IsEmpty 检查令牌是否为空。
func (c Credential) IsEmpty() bool {
	return c == ""
}

// ResourceID 是注册测试资源（商户）后得到的标识，不可变，所有 worker 只读共享。
type ResourceID string

// String 返回标识原文。
func (r ResourceID) String() string {
	return string(r)
}

// IsEmpty 检查标识是否为空。
func (r ResourceID) IsEmpty() bool {
	return r == ""
}
