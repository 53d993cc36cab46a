package domain

// Role 用户角色
type Role string

const (
	RoleAdmin Role = "admin"
	// RoleCSR 客户成功经理，规则没有指定接收人的时候通知他们
	RoleCSR    Role = "csr"
	RoleViewer Role = "viewer"
)

func (r Role) String() string {
	return string(r)
}

type User struct {
	ID    int64  `json:"id"`
	OrgID int64  `json:"orgId"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}
