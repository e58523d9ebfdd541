package notify

// otpEmailHTML is the branded template for OTP delivery emails.
const otpEmailHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Your OTP Verification Code</title>
<style>
  body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f9fafb; margin: 0; padding: 20px; }
  .container { max-width: 600px; margin: auto; background: #ffffff; border: 1px solid #e9ecef; border-radius: 10px; overflow: hidden; }
  .header { background-color: #1a73e8; color: white; padding: 20px; text-align: center; }
  .header h1 { margin: 0; font-size: 24px; }
  .content { padding: 30px; text-align: center; }
  .code { font-size: 32px; font-weight: bold; letter-spacing: 5px; color: #1a73e8; background-color: #f0f7ff; padding: 15px 20px; border-radius: 6px; display: inline-block; margin: 20px 0; }
  .footer { background-color: #f8f9fa; padding: 20px; text-align: center; font-size: 12px; color: #6c757d; }
  p { margin-bottom: 1em; }
</style>
</head>
<body>
  <div class="container">
    <div class="header">
      <h1>Your OTP Verification Code</h1>
    </div>
    <div class="content">
      <p>Your OTP for %s login is:</p>
      <div class="code">%s</div>
      <p>This OTP will expire in 5 minutes.</p>
      <p>If you did not request this code, you can safely ignore this email.</p>
    </div>
    <div class="footer">
      %s &mdash; this is an automated message, please do not reply.
    </div>
  </div>
</body>
</html>`
