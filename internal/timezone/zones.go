package timezone

// canonicalZones is the searchable IANA set. Validation additionally goes
// through time.LoadLocation, so a zone missing here can still be stored if
// the platform tzdata knows it; this list drives `timezone list` search and
// case-insensitive normalization.
var canonicalZones = []string{
	"Africa/Abidjan", "Africa/Accra", "Africa/Addis_Ababa", "Africa/Algiers",
	"Africa/Cairo", "Africa/Casablanca", "Africa/Dakar", "Africa/Dar_es_Salaam",
	"Africa/Harare", "Africa/Johannesburg", "Africa/Kampala", "Africa/Khartoum",
	"Africa/Kinshasa", "Africa/Lagos", "Africa/Luanda", "Africa/Lusaka",
	"Africa/Maputo", "Africa/Nairobi", "Africa/Tripoli", "Africa/Tunis",
	"America/Adak", "America/Anchorage", "America/Argentina/Buenos_Aires",
	"America/Argentina/Cordoba", "America/Argentina/Mendoza", "America/Asuncion",
	"America/Bogota", "America/Boise", "America/Campo_Grande", "America/Cancun",
	"America/Caracas", "America/Chicago", "America/Chihuahua", "America/Costa_Rica",
	"America/Cuiaba", "America/Denver", "America/Detroit", "America/Edmonton",
	"America/El_Salvador", "America/Fortaleza", "America/Godthab",
	"America/Guatemala", "America/Guayaquil", "America/Halifax", "America/Havana",
	"America/Hermosillo", "America/Indiana/Indianapolis", "America/Jamaica",
	"America/Juneau", "America/La_Paz", "America/Lima", "America/Los_Angeles",
	"America/Managua", "America/Manaus", "America/Mazatlan", "America/Mexico_City",
	"America/Montevideo", "America/Monterrey", "America/New_York",
	"America/Panama", "America/Phoenix", "America/Port-au-Prince",
	"America/Puerto_Rico", "America/Recife", "America/Regina",
	"America/Santiago", "America/Santo_Domingo", "America/Sao_Paulo",
	"America/St_Johns", "America/Tegucigalpa", "America/Tijuana",
	"America/Toronto", "America/Vancouver", "America/Winnipeg",
	"Asia/Aden", "Asia/Almaty", "Asia/Amman", "Asia/Aqtobe", "Asia/Ashgabat",
	"Asia/Baghdad", "Asia/Bahrain", "Asia/Baku", "Asia/Bangkok", "Asia/Beirut",
	"Asia/Bishkek", "Asia/Brunei", "Asia/Chongqing", "Asia/Colombo",
	"Asia/Damascus", "Asia/Dhaka", "Asia/Dubai", "Asia/Dushanbe",
	"Asia/Ho_Chi_Minh", "Asia/Hong_Kong", "Asia/Irkutsk", "Asia/Jakarta",
	"Asia/Jerusalem", "Asia/Kabul", "Asia/Kamchatka", "Asia/Karachi",
	"Asia/Kathmandu", "Asia/Kolkata", "Asia/Krasnoyarsk", "Asia/Kuala_Lumpur",
	"Asia/Kuwait", "Asia/Macau", "Asia/Magadan", "Asia/Makassar", "Asia/Manila",
	"Asia/Muscat", "Asia/Nicosia", "Asia/Novosibirsk", "Asia/Omsk",
	"Asia/Phnom_Penh", "Asia/Pyongyang", "Asia/Qatar", "Asia/Rangoon",
	"Asia/Riyadh", "Asia/Sakhalin", "Asia/Seoul", "Asia/Shanghai",
	"Asia/Singapore", "Asia/Taipei", "Asia/Tashkent", "Asia/Tbilisi",
	"Asia/Tehran", "Asia/Thimphu", "Asia/Tokyo", "Asia/Ulaanbaatar",
	"Asia/Urumqi", "Asia/Vientiane", "Asia/Vladivostok", "Asia/Yakutsk",
	"Asia/Yangon", "Asia/Yekaterinburg", "Asia/Yerevan",
	"Atlantic/Azores", "Atlantic/Bermuda", "Atlantic/Canary",
	"Atlantic/Cape_Verde", "Atlantic/Reykjavik", "Atlantic/South_Georgia",
	"Australia/Adelaide", "Australia/Brisbane", "Australia/Darwin",
	"Australia/Hobart", "Australia/Melbourne", "Australia/Perth",
	"Australia/Sydney",
	"Etc/GMT", "Etc/UTC",
	"Europe/Amsterdam", "Europe/Andorra", "Europe/Athens", "Europe/Belgrade",
	"Europe/Berlin", "Europe/Bratislava", "Europe/Brussels", "Europe/Bucharest",
	"Europe/Budapest", "Europe/Chisinau", "Europe/Copenhagen", "Europe/Dublin",
	"Europe/Gibraltar", "Europe/Helsinki", "Europe/Istanbul", "Europe/Kaliningrad",
	"Europe/Kyiv", "Europe/Lisbon", "Europe/Ljubljana", "Europe/London",
	"Europe/Luxembourg", "Europe/Madrid", "Europe/Malta", "Europe/Minsk",
	"Europe/Monaco", "Europe/Moscow", "Europe/Oslo", "Europe/Paris",
	"Europe/Prague", "Europe/Riga", "Europe/Rome", "Europe/Samara",
	"Europe/Sarajevo", "Europe/Skopje", "Europe/Sofia", "Europe/Stockholm",
	"Europe/Tallinn", "Europe/Tirane", "Europe/Vienna", "Europe/Vilnius",
	"Europe/Warsaw", "Europe/Zagreb", "Europe/Zurich",
	"Pacific/Auckland", "Pacific/Chatham", "Pacific/Fiji", "Pacific/Guam",
	"Pacific/Honolulu", "Pacific/Majuro", "Pacific/Midway", "Pacific/Noumea",
	"Pacific/Pago_Pago", "Pacific/Port_Moresby", "Pacific/Tahiti",
	"Pacific/Tongatapu",
	"UTC",
}
