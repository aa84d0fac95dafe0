package domain

type NotificationMessage struct {
	Type string `json:"type"`
	To   string `json:"to"`
	Data any    `json:"data"`
}

type VerifyEmailData struct {
	Name       string `json:"name"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type ResetPasswordData struct {
	Name       string `json:"name"`
	OTP        string `json:"otp"`
	Expiration int    `json:"expiration"`
}

type PrioritySubmittedData struct {
	OwnerName    string `json:"ownerName"`
	EmployeeName string `json:"employeeName"`
	ScheduleName string `json:"scheduleName"`
	Station      string `json:"station,omitempty"`
}

type EmployeeInvitedData struct {
	InviteeName  string `json:"inviteeName"`
	InviterName  string `json:"inviterName"`
	ScheduleName string `json:"scheduleName"`
}
