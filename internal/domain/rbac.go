package domain

// EnforceRequest asks whether a role may perform action on resource.
type EnforceRequest struct {
	Role     string `json:"role" binding:"required"`
	Resource string `json:"resource" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

type EnforceResponse struct {
	Allowed bool `json:"allowed"`
}

const (
	ResourceLeave   = "leave"
	ResourceHoliday = "holiday"
	ResourceBalance = "balance"

	ActionDecide    = "decide"
	ActionCancelAny = "cancel_any"
	ActionReadAll   = "read_all"
	ActionManage    = "manage"
)
