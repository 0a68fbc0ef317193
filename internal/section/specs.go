package section

import "github.com/iWorld-y/sre_weekly/internal/model"

// Specs 返回主报告之外的全部栏目规格，顺序即周报中的展示顺序。
// 字段名与各 Notion 数据库的英文列名严格一致。
func Specs() []Spec {
	return []Spec{
		{
			Name:        "运维行业动态 (SRE Dynamics)",
			Key:         "sreDynamics",
			Instruction: "全球 SRE 和云原生领域的关键技术进展或最佳实践",
			MinItems:    3,
			IdealItems:  5,
			LinkField:   "official_link",
			Note:        "注意：'release_date' 必须是 YYYY-MM-DD 格式，'focus_areas' 必须是逗号分隔的字符串。",
			Example: `{
    "sreDynamics": [
        {
            "title": "Google 发布下一代 SRE 实践指南",
            "summary": "指南强调了 SLI/SLO 的动态调整和混沌工程...",
            "source_company": "Google",
            "release_date": "2025-08-20",
            "official_link": "https://example.com/sre-guide",
            "focus_areas": "AIOps, Chaos Engineering",
            "analysis_content": "该报告表明 SRE 正在从被动响应转向主动弹性设计..."
        }
    ]
}`,
			Fields: []model.Field{
				{Name: "title", Label: "动态标题", Kind: model.KindTitle},
				{Name: "summary", Label: "摘要", Kind: model.KindText},
				{Name: "source_company", Label: "来源公司", Kind: model.KindText},
				{Name: "release_date", Label: "发布日期", Kind: model.KindDate},
				{Name: "official_link", Label: "链接", Kind: model.KindURL},
				{Name: "focus_areas", Label: "领域", Kind: model.KindText},
				{Name: "analysis_content", Label: "解读", Kind: model.KindText},
			},
			Display: []string{"title", "summary", "focus_areas", "official_link"},
		},
		{
			Name:        "全球故障信息 (Failure Incidents)",
			Key:         "failureIncidents",
			Instruction: "过去一周发生的具有影响力的、公开披露的全球性服务故障。必须包含所有字段：incident_title, company, official_link (链接), overview, root_cause, improvement_measures, incident_date (务必使用 ISO 8601 Timestamp 格式，如 YYYY-MM-DDTHH:MM:SSZ)",
			MinItems:    3,
			IdealItems:  5,
			LinkField:   "official_link",
			Example: `{
    "failureIncidents": [
        {
            "incident_title": "数据库连接池饱和导致全球服务中断",
            "company": "大型云服务商",
            "incident_date": "2025-08-20T10:00:00Z",
            "official_link": "https://example.com/incident-report-001",
            "overview": "服务中断 30 分钟，影响全球多个区域。",
            "root_cause": "数据库连接池饱和，未能及时扩容",
            "timeline": "10:00 - 发现告警；10:15 - 紧急扩容；10:30 - 服务恢复。",
            "improvement_measures": "实施连接池弹性伸缩机制并限制连接数。",
            "lessons_learned": "在高并发场景下，连接池的动态管理至关重要。"
        }
    ]
}`,
			Fields: []model.Field{
				{Name: "incident_title", Label: "故障标题", Kind: model.KindTitle},
				{Name: "company", Label: "公司", Kind: model.KindText},
				{Name: "incident_date", Label: "日期", Kind: model.KindDate},
				{Name: "official_link", Label: "链接", Kind: model.KindURL},
				{Name: "overview", Label: "概览", Kind: model.KindText},
				{Name: "root_cause", Label: "根因", Kind: model.KindText},
				{Name: "timeline", Label: "时间线", Kind: model.KindText},
				{Name: "improvement_measures", Label: "改进措施", Kind: model.KindText},
				{Name: "lessons_learned", Label: "经验教训", Kind: model.KindText},
			},
			Display: []string{"incident_title", "company", "overview", "root_cause", "incident_date", "official_link"},
		},
		{
			Name:        "AI 前沿资讯 (AI News)",
			Key:         "aiNews",
			Instruction: "关于模型、算法、监管或硬件的重大 AI 前沿资讯",
			MinItems:    3,
			IdealItems:  5,
			LinkField:   "news_link",
			Note:        "注意：'publish_date' 必须是 YYYY-MM-DD 格式。",
			Example: `{
    "aiNews": [
        {
            "title": "OpenAI 推出 GPT-5，具备原生多模态能力",
            "summary": "新模型在长文本理解和图像生成方面取得突破性进展...",
            "source": "OpenAI 官网",
            "publish_date": "2025-08-20",
            "news_link": "https://example.com/gpt5",
            "category": "Model Release (模型发布)",
            "analysis": "GPT-5 的发布加速了多模态在商业应用中的普及。"
        }
    ]
}`,
			Fields: []model.Field{
				{Name: "title", Label: "标题", Kind: model.KindTitle},
				{Name: "summary", Label: "摘要", Kind: model.KindText},
				{Name: "source", Label: "来源", Kind: model.KindText},
				{Name: "publish_date", Label: "发布日期", Kind: model.KindDate},
				{Name: "news_link", Label: "链接", Kind: model.KindURL},
				{Name: "category", Label: "类别", Kind: model.KindText},
				{Name: "analysis", Label: "解读", Kind: model.KindText},
			},
			Display: []string{"title", "summary", "source", "category", "news_link"},
		},
		{
			Name:        "AI 学习推荐 (AI Learning)",
			Key:         "aiLearning",
			Instruction: "值得推荐的最新的前沿学习资源。资源主题应围绕 SRE、AIOps 或前沿 AI 技术，不限于网页、书本、视频",
			MinItems:    3,
			IdealItems:  5,
			LinkField:   "link",
			Note:        "注意：'tags' 必须是逗号分隔的字符串。",
			Example: `{
    "aiLearning": [
        {
            "material_name": "《深度学习系统设计》",
            "description": "深入理解大型模型训练与推理的架构。",
            "type": "Book (书籍)",
            "difficulty": "Advanced (高级)",
            "link": "https://example.com/deep-learning-book",
            "tags": "LLM, System Design"
        }
    ]
}`,
			Fields: []model.Field{
				{Name: "material_name", Label: "资源名称", Kind: model.KindTitle},
				{Name: "description", Label: "推荐理由", Kind: model.KindText},
				{Name: "type", Label: "类型", Kind: model.KindText},
				{Name: "difficulty", Label: "难度", Kind: model.KindText},
				{Name: "link", Label: "链接", Kind: model.KindURL},
				{Name: "tags", Label: "标签", Kind: model.KindText},
			},
			Display: []string{"material_name", "type", "difficulty", "description", "link"},
		},
		{
			Name:        "AI 商业机会 (AI Business Opportunity)",
			Key:         "aiBusinessOpportunity",
			Instruction: "基于当前 AI 技术的潜在商业化方向。必须包含商机标题、详细描述、潜在市场、价值主张、支撑趋势、预估投入（如：Low (低), Medium (中), High (高)）以及**支撑该趋势的报告链接**",
			MinItems:    3,
			IdealItems:  5,
			LinkField:   "trend_link",
			Example: `{
    "aiBusinessOpportunity": [
        {
            "opportunity_title": "基于 RAG 的垂直知识库 SaaS",
            "description": "为特定行业（如医疗）提供定制化的 RAG 解决方案，解决企业内部知识检索效率问题。",
            "potential_market": "医疗行业, 零售电商",
            "value_proposition": "提供高准确率和低成本的知识检索服务，显著提高专家工作效率。",
            "trend_reference": "多模态大模型的推理能力增强",
            "trend_link": "https://example.com/trend-report-link",
            "estimated_effort": "Medium (中)"
        }
    ]
}`,
			Fields: []model.Field{
				{Name: "opportunity_title", Label: "商机标题", Kind: model.KindTitle},
				{Name: "description", Label: "描述", Kind: model.KindText},
				{Name: "potential_market", Label: "潜在市场", Kind: model.KindText},
				{Name: "value_proposition", Label: "价值主张", Kind: model.KindText},
				{Name: "trend_reference", Label: "支撑趋势", Kind: model.KindText},
				{Name: "trend_link", Label: "趋势链接", Kind: model.KindURL},
				{Name: "estimated_effort", Label: "预估投入", Kind: model.KindText},
			},
			Display: []string{"opportunity_title", "description", "potential_market", "estimated_effort", "trend_link"},
		},
	}
}
