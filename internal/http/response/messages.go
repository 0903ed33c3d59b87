package response

// Static message catalog keyed by error kind and locale. Handlers hand a
// kind to Error; raw strings never travel through the services.
var messages = map[string]map[string]string{
	"email_required": {
		"ko": "이메일을 입력해 주세요.",
		"en": "E-mail is required.",
	},
	"email_invalid": {
		"ko": "유효한 이메일 주소를 입력하십시오.",
		"en": "Enter a valid e-mail address.",
	},
	"email_exists": {
		"ko": "이미 가입한 이메일입니다.",
		"en": "Email already exists.",
	},
	"already_registered": {
		"ko": "이미 가입된 계정입니다.",
		"en": "This account is registered already.",
	},
	"unregistered_email": {
		"ko": "가입되지 않은 이메일입니다.",
		"en": "Unregistered E-mail.",
	},
	"password_required": {
		"ko": "비밀번호를 입력해 주세요.",
		"en": "Password is required.",
	},
	"password_mismatch": {
		"ko": "비밀번호가 일치하지 않습니다.",
		"en": "Password does not match.",
	},
	"password_format": {
		"ko": "비밀번호 형식이 올바르지 않습니다.",
		"en": "Invalid password format.",
	},
	"password_too_short": {
		"ko": "비밀번호가 너무 짧습니다. 최소 8 문자를 포함해야 합니다.",
		"en": "Password is too short. It must contain at least 8 characters.",
	},
	"password_too_common": {
		"ko": "비밀번호가 너무 일상적인 단어입니다.",
		"en": "Password is too common.",
	},
	"password_all_numeric": {
		"ko": "비밀번호가 전부 숫자로 되어 있습니다.",
		"en": "Password is entirely numeric.",
	},
	"incorrect_password": {
		"ko": "비밀번호가 올바르지 않습니다.",
		"en": "Incorrect Password.",
	},
	"incorrect_code": {
		"ko": "인증번호가 올바르지 않습니다.",
		"en": "Incorrect Code.",
	},
	"time_expired": {
		"ko": "인증 시간이 만료되었습니다.",
		"en": "Time expired.",
	},
	"verification_expired": {
		"ko": "이메일 인증 시간이 초과되었습니다.",
		"en": "Email verification time over.",
	},
	"invalid_id_token": {
		"ko": "id_token이 유효하지 않습니다.",
		"en": "id_token is invalid.",
	},
	"google_id_mismatch": {
		"ko": "구글 계정 정보가 일치하지 않습니다.",
		"en": "google_id does not match.",
	},
	"social_exists": {
		"ko": "이미 가입된 소셜 계정입니다.",
		"en": "Social already exists.",
	},
	"social_not_found": {
		"ko": "가입되지 않은 소셜 계정입니다.",
		"en": "Social does not exists.",
	},
	"user_not_found": {
		"ko": "존재하지 않는 사용자입니다.",
		"en": "User does not exists.",
	},
	"nickname_invalid": {
		"ko": "닉네임에 이모지나 특수문자는 사용할 수 없습니다.",
		"en": "Emoji or special characters cannot be used as nicknames.",
	},
	"nickname_taken": {
		"ko": "중복된 닉네임입니다.",
		"en": "Duplicate nickname.",
	},
	"validation": {
		"ko": "입력값이 올바르지 않습니다.",
		"en": "Invalid request parameters.",
	},
	// The 401 message is fixed regardless of the underlying cause.
	"unauthorized": {
		"ko": "인증 정보가 유효하지 않습니다.",
		"en": "Invalid authentication credentials.",
	},
	"rate_limited": {
		"ko": "요청이 너무 많습니다. 잠시 후 다시 시도해 주세요.",
		"en": "Too many requests.",
	},
	"internal": {
		"ko": "일시적인 오류가 발생했습니다.",
		"en": "Internal server error.",
	},
}

func Message(kind, locale string) string {
	byLocale, ok := messages[kind]
	if !ok {
		return kind
	}
	if msg, ok := byLocale[locale]; ok {
		return msg
	}
	return byLocale["en"]
}
