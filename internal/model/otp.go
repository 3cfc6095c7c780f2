package model

type SendCodeRequest struct {
	Contact string `json:"contact" binding:"required,email"`
}

type CheckCodeRequest struct {
	Contact string `json:"contact" binding:"required,email"`
	Code    string `json:"code" binding:"required,len=6"`
}

type CheckCodeResponse struct {
	Verified bool `json:"verified"`
}
