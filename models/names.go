package models

// twStockNames maps frequently requested Taiwan exchange codes to their
// local company names, used only for display.
var twStockNames = map[string]string{
	"2330": "台積電", "2317": "鴻海", "2454": "聯發科", "2303": "聯電", "2308": "台達電",
	"2881": "富邦金", "2882": "國泰金", "2891": "中信金", "2886": "兆豐金", "2884": "玉山金",
	"2603": "長榮", "2609": "陽明", "2615": "萬海", "2618": "長榮航", "2610": "華航",
	"3008": "大立光", "3034": "聯詠", "3037": "欣興", "3045": "台灣大", "2412": "中華電",
	"2912": "統一超", "1216": "統一", "2002": "中鋼", "1101": "台泥", "1102": "亞泥",
	"3231": "緯創", "2382": "廣達", "2376": "技嘉", "2356": "英業達", "6669": "緯穎",
	"2324": "仁寶", "2357": "華碩", "2301": "光寶科", "2344": "華邦電", "2409": "友達",
	"3481": "群創", "2395": "研華", "5871": "中租-KY", "9910": "豐泰", "9921": "巨大",
}
