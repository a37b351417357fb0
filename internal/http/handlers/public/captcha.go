package public

import (
	"github.com/mesa-next/internal/constants"
	"github.com/mesa-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type captchaScenes struct {
	Register       bool `json:"register"`
	ForgotPassword bool `json:"forgot_password"`
}

type captchaView struct {
	Enabled     bool          `json:"enabled"`
	CaptchaID   string        `json:"captcha_id,omitempty"`
	ImageBase64 string        `json:"image_base64,omitempty"`
	Scenes      captchaScenes `json:"scenes"`
}

// GetImageCaptcha 生成图片验证码；未启用时返回 enabled=false，前端据此隐藏输入框
func (h *Handler) GetImageCaptcha(c *gin.Context) {
	if h.CaptchaService == nil || !h.CaptchaService.Enabled() {
		response.Success(c, captchaView{})
		return
	}
	challenge, err := h.CaptchaService.GenerateImageChallenge()
	if err != nil {
		respondError(c, response.CodeInternal, "error.captcha_generate_failed", err)
		return
	}
	response.Success(c, captchaView{
		Enabled:     true,
		CaptchaID:   challenge.CaptchaID,
		ImageBase64: challenge.ImageBase64,
		Scenes: captchaScenes{
			Register:       h.CaptchaService.SceneEnabled(constants.CaptchaSceneRegister),
			ForgotPassword: h.CaptchaService.SceneEnabled(constants.CaptchaSceneForgotPassword),
		},
	})
}
