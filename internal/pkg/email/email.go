package email

import (
	"fmt"
	"net/smtp"
	"strings"

	"github.com/projectreach/reach_go_server/config"
)

type Service struct {
	cfg *config.EmailConfig
}

func NewService(cfg *config.EmailConfig) *Service {
	return &Service{cfg: cfg}
}

// SendThanks 发送捐赠感谢邮件
func (s *Service) SendThanks(to, donorName, campaignName string, amount float64) error {
	subject := fmt.Sprintf("感谢您的捐赠 - %s", campaignName)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">感谢您的捐赠！</h2>
        <p>%s，您好，</p>
        <p>我们已收到您对「%s」的捐赠：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; margin: 20px 0;">
            $%.2f
        </div>
        <p>您的每一份支持都在推动活动目标的达成。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, donorName, campaignName, amount)

	return s.sendHTML(to, subject, body)
}

// SendPostEvent 发送活动结束通知邮件
func (s *Service) SendPostEvent(to, campaignName string, raised, goal float64) error {
	subject := fmt.Sprintf("活动圆满结束 - %s", campaignName)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">活动结束，感谢同行！</h2>
        <p>您好，</p>
        <p>您参与的「%s」已经结束。</p>
        <p>本次活动共筹集：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; margin: 20px 0;">
            $%.2f / $%.2f
        </div>
        <p>感谢您的慷慨支持，期待与您在下次活动再会。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, campaignName, raised, goal)

	return s.sendHTML(to, subject, body)
}

// SendExpiringSoon 发送活动临期提醒邮件
func (s *Service) SendExpiringSoon(to, campaignName string, daysLeft int, raised, goal float64) error {
	subject := fmt.Sprintf("活动即将结束 - %s", campaignName)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">活动进入倒计时！</h2>
        <p>您好，</p>
        <p>您参与的「%s」还有 <strong>%d</strong> 天结束。</p>
        <p>当前筹款进度：</p>
        <div style="background-color: #f3f4f6; padding: 15px; text-align: center; font-size: 24px; font-weight: bold; margin: 20px 0;">
            $%.2f / $%.2f
        </div>
        <p>距离目标还差一步，欢迎转发给更多朋友。</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, campaignName, daysLeft, raised, goal)

	return s.sendHTML(to, subject, body)
}

// SendBadge 发送纪念徽章邮件
func (s *Service) SendBadge(to, campaignName, badgeURL string) error {
	subject := fmt.Sprintf("您的纪念徽章 - %s", campaignName)
	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
</head>
<body style="font-family: Arial, sans-serif; line-height: 1.6; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h2 style="color: #2563eb;">专属纪念徽章</h2>
        <p>您好，</p>
        <p>为纪念「%s」达成目标，我们为所有支持者生成了专属纪念徽章：</p>
        <div style="text-align: center; margin: 30px 0;">
            <img src="%s" alt="badge" style="max-width: 300px; border-radius: 8px;" />
        </div>
        <p>或者复制以下链接到浏览器查看：</p>
        <p style="background-color: #f3f4f6; padding: 10px; word-break: break-all;">%s</p>
        <hr style="border: none; border-top: 1px solid #e5e7eb; margin: 20px 0;">
        <p style="color: #6b7280; font-size: 12px;">此邮件由系统自动发送，请勿回复。</p>
    </div>
</body>
</html>
`, campaignName, badgeURL, badgeURL)

	return s.sendHTML(to, subject, body)
}

// sendHTML 发送 HTML 邮件
func (s *Service) sendHTML(to, subject, body string) error {
	headers := make(map[string]string)
	headers["From"] = s.cfg.From
	headers["To"] = to
	headers["Subject"] = subject
	headers["MIME-Version"] = "1.0"
	headers["Content-Type"] = "text/html; charset=UTF-8"

	var msg strings.Builder
	for k, v := range headers {
		msg.WriteString(fmt.Sprintf("%s: %s\r\n", k, v))
	}
	msg.WriteString("\r\n")
	msg.WriteString(body)

	auth := smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.SMTPHost)
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	return smtp.SendMail(addr, auth, s.cfg.From, []string{to}, []byte(msg.String()))
}
