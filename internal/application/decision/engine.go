// Package decision 将检索到的合同规则片段转换为结构化、可审计的解约判定
package decision

import (
	"regexp"
	"strings"

	"cancel-decision-api/internal/domain/entity"
)

// 判定文案（面向日本客服现场，保持原文）
const (
	NarrativeInsufficient      = "受注回数などの条件が不足しているため、ルール適用条件を確認して判断。"
	narrativeFirstOrder        = "初回のみの解約希望：ルールに従い解約金条件などを確認して判断。"
	narrativeProhibitedWithFee = "原則は途中解約不可。ただし強い解約希望がある場合、初回解約金（所定額）を条件に例外的に解約可。"
	narrativeProhibitedConfirm = "原則は途中解約不可。ただし強い解約希望がある場合の例外ルールあり（条件確認）。"

	exceptionNote = "解約金の支払いに納得いただけない場合、最終特例として解約金なしで解約を承れる可能性あり（例外運用）"

	actionExplainTerms   = "コース/契約条件（縛りの有無）を案内する"
	actionExplainFee     = "所定の解約金が発生する可能性を案内し、金額は別途確認する"
	actionException      = "解約金に納得不可の場合は最終特例（免除可否）を検討し、運用方針に従い判断する"
	actionCheckDeadline  = "解約受付期限に該当するか（次回発送予定日基準）を確認する"
	actionConfirmMissing = "不足している情報（要確認事項）を顧客に確認してから案内を確定する"
	actionRecord         = "処理後に顧客メモへ根拠（know_id）と対応内容を記録する"

	confirmOrderCount   = "受注回数（初回のみ／2回目まで／3回目以降）"
	confirmNextShipment = "次回発送予定日（解約期限判定に必要）"
)

// draft 判定过程中的累积值
// 每个阶段接收一份快照并返回新的快照，切片在追加前复制
type draft struct {
	query   string
	context string
	hits    []entity.Hit
	allText string

	// feeConfirm 命中的解约金规则对应的“金额确认”项
	feeConfirm string

	rec Record
}

// stage 判定流水线中的一个阶段
type stage func(d draft) draft

// pipeline 阶段按顺序执行；缺失信息检查先于坐席动作，以便动作阶段读取其结果
var pipeline = []stage{
	joinTexts,
	detectFee,
	detectException,
	extractDeadline,
	composeNarrative,
	collectMissing,
	planActions,
	recordKnowIDs,
}

// Decide 根据查询、上下文与检索命中构造判定记录（未分类）
func Decide(query, context string, hits []entity.Hit) Record {
	d := draft{
		query:   query,
		context: context,
		hits:    hits,
		rec: Record{
			Decision:          NarrativeInsufficient,
			OperatorActions:   []string{},
			NeedsConfirmation: []string{},
			UsedKnowIDs:       []string{},
		},
	}
	for _, s := range pipeline {
		d = s(d)
	}
	return d.rec
}

func joinTexts(d draft) draft {
	d.allText = strings.Join(entity.Texts(d.hits), "\n")
	return d
}

// feeRule 解约金规则，按顺序匹配，首个命中生效
type feeRule struct {
	name    string
	when    func(text string) bool
	flag    FeeFlag
	note    string
	confirm string
}

func paymentConditioned(text string) bool {
	return strings.Contains(text, "条件に解約可") || strings.Contains(text, "支払いを条件")
}

var feeRules = []feeRule{
	{
		name: "first_fee",
		when: func(text string) bool {
			return strings.Contains(text, "初回解約金") && paymentConditioned(text)
		},
		flag:    FeeRequired,
		note:    "初回解約金（所定額／金額は別途確認）",
		confirm: "初回解約金の金額（所定額：マスター/別資料で確認）",
	},
	{
		name: "second_fee",
		when: func(text string) bool {
			return strings.Contains(text, "二回目解約金") && paymentConditioned(text)
		},
		flag:    FeeRequired,
		note:    "二回目解約金（所定額／金額は別途確認）",
		confirm: "二回目解約金の金額（所定額：マスター/別資料で確認）",
	},
	{
		name: "no_fee",
		when: func(text string) bool {
			return strings.Contains(text, "解約金なし") && strings.Contains(text, "解約可")
		},
		flag: FeeNotRequired,
		note: "解約金なし（該当条件の場合）",
	},
}

func detectFee(d draft) draft {
	d.rec.FeeRequired = FeeNotRequired
	for _, r := range feeRules {
		if r.when(d.allText) {
			d.rec.FeeRequired = r.flag
			d.rec.FeeNote = r.note
			d.feeConfirm = r.confirm
			d.rec.MatchedRules = withRule(d.rec.MatchedRules, "fee."+r.name)
			return d
		}
	}
	return d
}

func detectException(d draft) draft {
	if strings.Contains(d.allText, "どうしてもご納得いただけない") && strings.Contains(d.allText, "解約金なし") {
		d.rec.ExceptionPossible = true
		d.rec.ExceptionNote = exceptionNote
		d.rec.MatchedRules = withRule(d.rec.MatchedRules, "exception.last_resort")
	}
	return d
}

const deadlineMarker = "解約受付期限"

// 期限文抽取：优先初回专用句，其次通用句
var deadlinePatterns = []*regexp.Regexp{
	regexp.MustCompile(`初回.*?解約受付期限.*?。`),
	regexp.MustCompile(`解約受付期限.*?。`),
}

func extractDeadline(d draft) draft {
	if !strings.Contains(d.allText, deadlineMarker) {
		return d
	}
	for _, re := range deadlinePatterns {
		if m := re.FindString(d.allText); m != "" {
			d.rec.DeadlineRule = m
			d.rec.MatchedRules = withRule(d.rec.MatchedRules, "deadline")
			return d
		}
	}
	return d
}

var firstOrderMarkers = []string{"受注回数=初回", "受注回数=初回のみ", "初回のみ"}

func firstOrderOnly(context string) bool {
	for _, m := range firstOrderMarkers {
		if strings.Contains(context, m) {
			return true
		}
	}
	return false
}

func prohibitedInPrinciple(text string) bool {
	return strings.Contains(text, "原則として") && strings.Contains(text, "解約は不可")
}

// narrativeRule 判定文案规则，首个命中生效；均未命中时保留默认文案
type narrativeRule struct {
	name string
	when func(d draft) bool
	text string
}

var narrativeRules = []narrativeRule{
	{
		name: "prohibited_with_fee",
		when: func(d draft) bool {
			return firstOrderOnly(d.context) && prohibitedInPrinciple(d.allText) && d.rec.FeeRequired == FeeRequired
		},
		text: narrativeProhibitedWithFee,
	},
	{
		name: "prohibited_confirm_exception",
		when: func(d draft) bool {
			return firstOrderOnly(d.context) && prohibitedInPrinciple(d.allText)
		},
		text: narrativeProhibitedConfirm,
	},
	{
		name: "first_order",
		when: func(d draft) bool { return firstOrderOnly(d.context) },
		text: narrativeFirstOrder,
	},
	{
		name: "order_count_unknown",
		when: func(d draft) bool { return !firstOrderOnly(d.context) },
		text: NarrativeInsufficient,
	},
}

func composeNarrative(d draft) draft {
	for _, r := range narrativeRules {
		if r.when(d) {
			d.rec.Decision = r.text
			d.rec.MatchedRules = withRule(d.rec.MatchedRules, "narrative."+r.name)
			return d
		}
	}
	return d
}

// missingRule 缺失信息检查，每条独立判断
type missingRule struct {
	when func(d draft) bool
	item func(d draft) string
}

func fixed(s string) func(draft) string { return func(draft) string { return s } }

var missingRules = []missingRule{
	{
		when: func(d draft) bool { return !strings.Contains(d.context, "受注回数") },
		item: fixed(confirmOrderCount),
	},
	{
		when: func(d draft) bool { return !strings.Contains(d.context, "次回発送") },
		item: fixed(confirmNextShipment),
	},
	{
		when: func(d draft) bool { return d.rec.FeeRequired == FeeRequired },
		item: func(d draft) string { return d.feeConfirm },
	},
}

func collectMissing(d draft) draft {
	needs := make([]string, 0, len(missingRules))
	for _, r := range missingRules {
		if r.when(d) {
			needs = append(needs, r.item(d))
		}
	}
	d.rec.NeedsConfirmation = needs
	return d
}

// actionRule 坐席动作，按固定顺序逐条追加
type actionRule struct {
	when   func(d draft) bool
	action string
}

func always(draft) bool { return true }

var actionRules = []actionRule{
	{when: always, action: actionExplainTerms},
	{when: func(d draft) bool { return d.rec.FeeRequired == FeeRequired }, action: actionExplainFee},
	{when: func(d draft) bool { return d.rec.ExceptionPossible }, action: actionException},
	{when: func(d draft) bool { return d.rec.DeadlineRule != "" }, action: actionCheckDeadline},
	{when: func(d draft) bool { return len(d.rec.NeedsConfirmation) > 0 }, action: actionConfirmMissing},
	{when: always, action: actionRecord},
}

func planActions(d draft) draft {
	actions := make([]string, 0, len(actionRules))
	for _, r := range actionRules {
		if r.when(d) {
			actions = append(actions, r.action)
		}
	}
	d.rec.OperatorActions = actions
	return d
}

// withRule 返回追加了规则名的新切片，不修改上一阶段快照
func withRule(rules []string, name string) []string {
	out := make([]string, len(rules), len(rules)+1)
	copy(out, rules)
	return append(out, name)
}

func recordKnowIDs(d draft) draft {
	d.rec.UsedKnowIDs = entity.KnowIDs(d.hits)
	return d
}
