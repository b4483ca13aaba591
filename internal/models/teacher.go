package models

// Teacher is the signed-in instructor. Its presence in local state is the only
// gate in front of the protected screens.
type Teacher struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	Sub     string `json:"sub,omitempty"`
}

// DemoTeacher is the fixed identity used by the offline sign-in path.
func DemoTeacher() Teacher {
	return Teacher{
		Name:    "Demo Teacher",
		Email:   "demo.teacher@example.com",
		Picture: "https://i.pravatar.cc/150?img=5",
	}
}
