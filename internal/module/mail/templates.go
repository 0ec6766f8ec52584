package mail

const forgotPasswordTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .code { display: inline-block; padding: 12px 24px; background-color: #F3F4F6; font-size: 24px; letter-spacing: 4px; border-radius: 6px; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Reset Your Password</h1>
        <p>Hi {{.Name}},</p>
        <p>We received a request to reset your password. Use the code below to set a new one:</p>
        <p><span class="code">{{.Token}}</span></p>
        <p>You can also open {{.URL}} and enter the code there.</p>
        <p>This code will expire in 24 hours.</p>
        <div class="footer">
            <p>If you didn't request a password reset, you can safely ignore this email. Your password will remain unchanged.</p>
        </div>
    </div>
</body>
</html>
`

const confirmationTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .button { display: inline-block; padding: 12px 24px; background-color: #4F46E5; color: white; text-decoration: none; border-radius: 6px; }
        .footer { margin-top: 30px; font-size: 12px; color: #666; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Welcome to TeamTodo!</h1>
        <p>Hi {{.Name}},</p>
        <p>Your account has been created. Jump in and start organizing your todos with your team:</p>
        <p><a href="{{.URL}}" class="button">Open TeamTodo</a></p>
        <div class="footer">
            <p>If you didn't create an account, you can safely ignore this email.</p>
        </div>
    </div>
</body>
</html>
`
