package entity

// Kind selects the template an email is rendered with.
type Kind string

const (
	KindOTP          Kind = "otp"
	KindProfileViews Kind = "profile_views"
)

func (k Kind) String() string { return string(k) }
